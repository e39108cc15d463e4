package service

import "fmt"

func welcomeEmailTemplate(name, feedURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Upload your first reel or browse the latest ones:
%s

Videos are shown in portrait 1080x1920, so vertical clips look best.

Best,
The %s Team`, name, feedURL, appName)

	return subject, body
}
