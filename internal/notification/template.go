package notification

import (
	"bytes"
	"html/template"
)

// emailTmpl is the HTML alternative attached to every outgoing notification.
// {{.Subject}} and {{.Body}} are auto-escaped by html/template; the body keeps
// its line breaks through white-space:pre-wrap.
var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:0;background-color:#f3f4f6;
     font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" role="presentation"
         style="background-color:#f3f4f6;padding:32px 16px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" role="presentation"
               style="max-width:600px;width:100%;">
          <tr>
            <td style="background-color:#0b3d5c;padding:20px 32px;border-radius:10px 10px 0 0;">
              <span style="font-size:18px;font-weight:700;color:#ffffff;">smdata</span>
              <span style="float:right;font-size:11px;color:#cbd5e1;letter-spacing:0.4px;">CONTACT FORM</span>
            </td>
          </tr>
          <tr>
            <td style="background-color:#e2e8f0;padding:14px 32px;border-left:3px solid #0b3d5c;">
              <p style="margin:0;font-size:15px;font-weight:600;color:#1f2937;">{{.Subject}}</p>
            </td>
          </tr>
          <tr>
            <td style="background-color:#ffffff;padding:28px 32px;border-radius:0 0 10px 10px;">
              <div style="font-size:14px;line-height:1.7;color:#374151;
                          white-space:pre-wrap;word-break:break-word;">{{.Body}}</div>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// buildEmailHTML renders the HTML email template with the given subject and body.
func buildEmailHTML(subject, body string) (string, error) {
	var buf bytes.Buffer
	err := emailTmpl.Execute(&buf, struct{ Subject, Body string }{subject, body})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
