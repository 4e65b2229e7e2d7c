package api

var pageTemplates = []string{
	"home",
	"calendar",
	"gallery",
	"blog",
	"blog_post",
	"courses",
	"course",
	"signup",
	"signup_instructions",
	"signup_confirm",
	"login",
	"forgot_password",
	"forgot_password_check",
	"reset_password",
	"contact",
	"not_found",
}
