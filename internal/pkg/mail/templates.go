package mail

import (
	"bytes"
	"html/template"
	"time"
)

// WelcomeData is the data for subscription confirmation emails.
type WelcomeData struct {
	Name           string
	SiteName       string
	SiteURL        string
	UnsubscribeURL string
}

// NewPostData is the data for new-post notification emails.
type NewPostData struct {
	Name           string
	SiteName       string
	Title          string
	Excerpt        string
	PostURL        string
	UnsubscribeURL string
}

// ContactNotifyData is the data for contact form notifications.
type ContactNotifyData struct {
	SiteName string
	Name     string
	Email    string
	Message  string
}

const welcomeTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;background:#fff;border-radius:.375rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1);margin:40px auto;padding:24px;width:550px">
    <tbody>
      <tr><td>
        <h1 style="color:#111;font-size:20px;text-align:center;margin:24px 0">Welcome to {{.SiteName}}{{if .Name}}, {{.Name}}{{end}}!</h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#333">Thanks for subscribing. From now on you'll get an email whenever a new post is published.</p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:32px 0">
          <tbody><tr><td>
            <a href="{{.SiteURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;max-width:100%;padding:12px 20px;background-color:rgb(79,70,229);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600;text-align:center">Browse the blog</a>
          </td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">Don't want these emails? <a href="{{.UnsubscribeURL}}" style="color:rgb(156,163,175)">Unsubscribe</a> (link valid for 7 days).<br />&copy;{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const newPostTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;background:#fff;border-radius:.375rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1);margin:40px auto;padding:24px;width:550px">
    <tbody>
      <tr><td>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#333">{{.SiteName}} just published a new post:</p>
        <h1 style="font-size:20px;text-align:center;color:#111">{{.Title}}</h1>
        {{if .Excerpt}}<p style="font-size:14px;line-height:24px;margin:16px 0;color:#333">{{.Excerpt}}</p>{{end}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:32px 0">
          <tbody><tr><td>
            <a href="{{.PostURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;max-width:100%;padding:12px 20px;background-color:rgb(79,70,229);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600;text-align:center">Read the full post</a>
          </td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">You're getting this because you subscribed to {{.SiteName}}.<br /><a href="{{.UnsubscribeURL}}" style="color:rgb(156,163,175)">Unsubscribe</a> (link valid for 7 days).<br />&copy;{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const contactNotifyTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;background:#fff;border-radius:.375rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1);margin:40px auto;padding:24px;width:550px">
    <tbody>
      <tr><td>
        <h1 style="color:#111;font-size:18px;margin:24px 0">New contact message</h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#333"><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:13px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{.Message}}</p></td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">Sent automatically by {{.SiteName}}.<br />&copy;{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
