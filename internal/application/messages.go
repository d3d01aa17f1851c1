package application

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"first-aid/internal/domain"
)

const (
	MsgDisclaimer = "Welcome to the First-Aid Assistant. " +
		"Before we begin, please remember, I am a First Aid assistant and not a medical professional. " +
		"For any serious or life-threatening situation, you must call your local emergency services immediately. " +
		"This tool is for informational purposes for minor injuries only."
	MsgFallback      = "I'm sorry, I can only provide first-aid advice. Please tell me the injury, for example, What to do for a burn?"
	MsgGoodbye       = "Goodbye! Stay safe."
	MsgAdvancePrompt = "Say 'next' to continue, or 'stop' to end."
	MsgStopped       = "Stopping instructions. How else can I help?"
	MsgEndMarker     = "--- End of Instructions ---"

	MsgNoSpeech           = "No speech detected. Please try again."
	MsgUnintelligible     = "Sorry, I did not understand that."
	MsgServiceUnavailable = "Sorry, my speech service is down."
	MsgCaptureFailed      = "Could not capture audio. Please try again."
)

var (
	exitWords  = []string{"goodbye", "exit", "quit"}
	titleCaser = cases.Title(language.English)
)

func criticalWarning(key string) string {
	return fmt.Sprintf("Warning: %s can be a life-threatening emergency. "+
		"My first step is to advise you to call emergency services immediately. "+
		"I will provide interim steps, but this is not a substitute for professional help.", key)
}

func unknownInjury(key string) string {
	return fmt.Sprintf("Sorry, I don't have instructions for %s.", key)
}

func noInstructions(key string) string {
	return fmt.Sprintf("I couldn't find detailed steps for %s.", key)
}

func instructionsHeader(key string) string {
	return fmt.Sprintf("--- First-Aid for: %s ---", titleCaser.String(key))
}

func instructionsIntro(key string) string {
	return fmt.Sprintf("Okay, here are the first-aid steps for a %s.", key)
}

func stepMessage(n int, text string) string {
	return fmt.Sprintf("Step %d: %s", n, text)
}

func closingReminder(key string) string {
	return fmt.Sprintf("Those are all the steps for a %s. Please remember to seek professional medical help if needed.", key)
}

func criticalAlert(key string) string {
	return fmt.Sprintf("Critical injury reported: %s", key)
}

func captureFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSpeech):
		return MsgNoSpeech
	case errors.Is(err, domain.ErrUnintelligible):
		return MsgUnintelligible
	case errors.Is(err, domain.ErrServiceUnavailable):
		return MsgServiceUnavailable
	default:
		return MsgCaptureFailed
	}
}
