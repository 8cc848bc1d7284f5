package mail

const codeParagraph = `<h2>{{.otp}}</h2>
<p>This code expires in 5 minutes. If you did not request it, you can ignore this email.</p>`

var defaultTemplates = map[string]string{
	"user-activation-mail": `<p>Hi {{.name}},</p>
<p>Thanks for signing up. Use the code below to activate your account.</p>
` + codeParagraph,

	"seller-activation-mail": `<p>Hi {{.name}},</p>
<p>Welcome aboard. Use the code below to activate your seller account.</p>
` + codeParagraph,

	"forgot-password-user-mail": `<p>Hi {{.name}},</p>
<p>We received a request to reset your password. Use the code below to continue.</p>
` + codeParagraph,

	"forgot-password-seller-mail": `<p>Hi {{.name}},</p>
<p>We received a request to reset your seller account password. Use the code below to continue.</p>
` + codeParagraph,
}
