package server

import "html/template"

// Pages mirror the markup hooks of the storefront's registration flow: the
// input ids, the Continue button, the error divs and the success heading.
var (
	registerPage = template.Must(template.New("register").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Register Account</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 800px;
            margin: 50px auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .form-group { margin-bottom: 16px; }
        .form-group label { display: block; margin-bottom: 4px; color: #333; }
        .form-group input[type=text], .form-group input[type=email],
        .form-group input[type=tel], .form-group input[type=password] {
            width: 100%;
            padding: 8px;
            box-sizing: border-box;
        }
        .text-danger { color: #dc3545; margin-top: 4px; }
        .alert-danger {
            background: #f8d7da;
            color: #721c24;
            padding: 12px;
            border-radius: 4px;
            margin-bottom: 20px;
        }
        .custom-control-input { position: absolute; opacity: 0; }
        .custom-control-label { cursor: pointer; }
        .btn-primary {
            background: #4285f4;
            color: white;
            border: none;
            padding: 12px 24px;
            border-radius: 4px;
            cursor: pointer;
        }
    </style>
</head>
<body>
    <div class="container">
        {{- if .Alert}}
        <div class="alert alert-danger alert-dismissible">{{.Alert}}</div>
        {{- end}}
        <h1 class="page-title h3">Register Account</h1>
        <form action="/index.php?route=account/register" method="post" enctype="application/x-www-form-urlencoded">
            {{- range .Fields}}
            <div class="form-group">
                <label for="{{.ID}}">{{.Label}}</label>
                <input type="{{.Type}}" name="{{.Name}}" value="{{.Value}}" placeholder="{{.Label}}" id="{{.ID}}">
                {{- if .Error}}
                <div class="text-danger">{{.Error}}</div>
                {{- end}}
            </div>
            {{- end}}
            <div class="custom-control custom-checkbox">
                <input type="checkbox" name="agree" value="1" id="input-agree" class="custom-control-input"{{if .Agreed}} checked{{end}}>
                <label class="custom-control-label" for="input-agree">I have read and agree to the <a href="#">Privacy Policy</a></label>
            </div>
            <p><input type="submit" value="Continue" class="btn btn-primary"></p>
        </form>
    </div>
</body>
</html>
`))

	successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Your Account Has Been Created!</title>
</head>
<body>
    <div class="container">
        <h1 class="page-title my-3">{{.}}</h1>
        <p>Congratulations! Your new account has been successfully created!</p>
    </div>
</body>
</html>
`))
)
