package nodes

// Fixed reply texts. The lead-collection branch is deliberately
// deterministic; only the casual branch produces open-ended text.
const (
	// DeflectionReply answers post-capture edit requests. Submitted details
	// are corrected by a human process, never by the agent.
	DeflectionReply = "Thanks for letting me know. For security reasons, updates to submitted details are handled by our team. Please reply to the confirmation email, or our team will assist you shortly."

	// AlreadyCapturedReply acknowledges a high-intent message after capture.
	AlreadyCapturedReply = "Thanks! Your details have been captured successfully. Our team will reach out to you shortly. Feel free to ask if you have other questions about AutoStream."

	// CaptureAckReply confirms that the completed record is being registered.
	CaptureAckReply = "Excellent! I have all your information. Processing your lead registration now..."

	// FieldPromptReply asks for the missing lead fields.
	FieldPromptReply = "Great! To get started, please share your name, email, and creator platform."

	// ResponderFailureReply covers knowledge or free-form responder failures.
	ResponderFailureReply = "I'm having trouble answering right now. Please try again in a moment."

	// CaptureFailureReply covers capture action failures; the record stays
	// eligible so the next high-intent turn retries.
	CaptureFailureReply = "Something went wrong while processing your registration. Please try again in a moment."
)
