package mail

type HandoffEmailData struct {
	StoreName    string
	CustomerName string
	PhoneNumber  string
	City         string
	Message      string
	LeadID       string
	RequestedAt  string
}

type EmailSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	To        string
	StoreName string
}
