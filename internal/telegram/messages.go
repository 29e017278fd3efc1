package telegram

const (
	startText    = "👋 Send me a voice message and I will answer with my voice."
	hintText     = "🎤 I only understand voice messages."
	thinkingText = "🤖 Thinking…"
	noSpeechText = "🔇 No speech detected. Please try again a bit louder or longer."
	tooLargeText = "⚠️ The recording is too large."
	downloadText = "⚠️ Could not download the voice message."
	failureText  = "⚠️ Something went wrong, please try again later."
)
