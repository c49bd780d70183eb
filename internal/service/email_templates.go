package service

import "fmt"

func reportReadyEmailTemplate(title, start, end, reportURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s report is ready", appName)
	body := fmt.Sprintf(`Your report "%s" covering %s to %s is ready.

View it here: %s

You can share the report with your doctor or pharmacist.

Best,
The %s Team`, title, start, end, reportURL, appName)

	return subject, body
}
