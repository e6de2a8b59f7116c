package mail

import "html/template"

var invitationTmpl = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>You've been invited to a project</h2>
  <p>{{.InviterName}} invited you to join <strong>{{.ProjectName}}</strong> on WORKORG.</p>
  <p>
    <a href="{{.AcceptURL}}" style="display: inline-block; padding: 12px 24px; background: #2563eb; color: #ffffff; text-decoration: none; border-radius: 8px;">
      Accept invitation
    </a>
  </p>
  <p style="color: #6b7280; font-size: 12px;">This invitation expires in 7 days. If you weren't expecting it, you can ignore this email.</p>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Welcome, {{.Name}}!</h2>
  {{if .ProjectName}}
  <p>You're now a member of <strong>{{.ProjectName}}</strong>.</p>
  {{else}}
  <p>Your account is ready. Create your first project and invite your team.</p>
  {{end}}
  <p><a href="{{.ClientURL}}/dashboard">Open your dashboard</a></p>
</body>
</html>`))

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}}, confirm your email address to finish setting up your account.</p>
  <p>
    <a href="{{.VerifyURL}}" style="display: inline-block; padding: 12px 24px; background: #2563eb; color: #ffffff; text-decoration: none; border-radius: 8px;">
      Verify email
    </a>
  </p>
  <p style="color: #6b7280; font-size: 12px;">The link expires in 24 hours.</p>
</body>
</html>`))
