package bot

import "strings"

// SystemDirective is installed as history slot 0 for every session and is
// never evicted.
const SystemDirective = "You are an intelligent assistant bot, named BookWorm, at the company BooksTime. " +
	"You can assist Bookkeepers, Senior Accountants, IT Department, Senior Managers and Client Service Advisors at BooksTime with their queries to the best of your ability. " +
	"You can provide sales support and management insights. " +
	"You can help Bookstimers (staffs at BooksTime) in analyzing financial statements, proofreading proposals for grammar errors, upselling opportunities, finding answers to questions in bank statements, help them draft emails and much much more. " +
	"If someone asks you, what is your name, you tell them your name is BookWorm."

// WelcomeText is exposed for transports to greet a newly joined user.
const WelcomeText = "Hello BooksTimer! I am BookWorm, an Intelligent Conversational Chatbot.\nHow can I help you today?"

// User-facing replies for the per-turn failure cases. Every failure maps to
// exactly one of these; internals are never surfaced.
const (
	apologyReply           = "Sorry, I can not answer your question at the moment. Please try again later. If this issue still persists, please reach out to the IT Team at BooksTime."
	tooLargeReply          = "The file is too large for me to process."
	unsupportedFormatReply = "Sorry, I can only read pdf, doc, docx, xlsx and xls files."
)

// augmentQuestion wraps the user question with the retrieved document
// excerpts. With no excerpts the question passes through unchanged.
func augmentQuestion(excerpts []string, question string) string {
	if len(excerpts) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Answer the question based on the context of the following document excerpts.\n\n")
	for _, ex := range excerpts {
		b.WriteString(ex)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
