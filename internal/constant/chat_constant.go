package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Stream chunk roles as seen by the web client
	StreamRoleAssistant = "Assistant"
	StreamRoleSystem    = "System"
)

const (
	// GateTokenOutOfDomain et al. are the literal tokens the gate model is
	// instructed to answer with. Classification is a substring match in
	// priority order: AGAIN > MORE > CONTINUE (anything else falls open to
	// CONTINUE since the gate is advisory).
	GateTokenOutOfDomain  = "AGAIN"
	GateTokenNeedMoreInfo = "MORE"
	GateTokenContinue     = "CONTINUE"
)

const ChatSystemPrompt = `You are a helpful home-listing assistant. You can answer questions about listed properties, such as the number of rooms, the area, the price, and so on.
If you don't know the answer, you can ask the user to provide more information about what they are looking for.
If the user asks about something unrelated to home listings, you must politely refuse to answer.
<IMPORTANT> Please do not answer questions that are not related to home listings, such as personal information, opinions, or other topics. </IMPORTANT>
<REFERENCE> When you refer to a specific listing, cite it like [^${listingID}]. </REFERENCE>
<REFERENCE-EXAMPLE meaning="cites listing 27"> [^27] </REFERENCE-EXAMPLE>`

// ChatGatePrompt classifies one user turn given the conversation so far.
// The model must answer with exactly one of the three gate tokens.
const ChatGatePrompt = `You are a professional home-listing recommendation assistant. A user has asked a question, and you are also given the context of the conversation so far. Decide whether the question is related to home listings.
If the question is completely unrelated to home listings, reply with the single word AGAIN, meaning the question cannot be answered and the user should rephrase or ask something else.
If the question IS related to home listings but carries too little information to act on, reply with the single word MORE, meaning more detail is needed. Weigh the conversation context carefully before giving this reply.
If the question is related to home listings and, combined with the context, contains something concrete to work with, reply with the single word CONTINUE.
Reply with exactly one of these three words and nothing else.
<CHAT_HISTORY> %s </CHAT_HISTORY>
<USER_QUEST> %s </USER_QUEST>`

// ChatRewritePrompt condenses (history, follow-up) into a standalone query
// for retrieval.
const ChatRewritePrompt = `Given the following conversation and a follow-up question, rephrase the follow up question to be a standalone question, in its original language. Keep as much details as possible from previous messages. Keep entity names and all.
the chat history:
%s
---
the follow up question:
%s`

const (
	// Canned single-chunk replies for short-circuited turns
	ChatRejectResponse   = "I specialise in questions about home listings. If you have another question, please rephrase it or provide more information."
	ChatMoreInfoResponse = "Please provide more information. I need more context to answer your question, for example the location, layout or area you are looking for."
	ChatBusyResponse     = "Your previous message is still being answered. Please wait for it to finish before sending another one."

	// EmptyHistoryPlaceholder stands in for the transcript on the first turn
	EmptyHistoryPlaceholder = "NONE"
)

// AuthoritativeBlockFormat wraps retrieved context so the model treats it
// as ground truth rather than user input.
const AuthoritativeBlockFormat = "<authoritative-information>\n%s\n</authoritative-information>"
