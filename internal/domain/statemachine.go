package domain

import "fmt"

// DrawEvent triggers a draw lifecycle transition
type DrawEvent string

const (
	DrawEventStart    DrawEvent = "start"
	DrawEventComplete DrawEvent = "complete"
	DrawEventCancel   DrawEvent = "cancel"
)

// NextStatus returns the status a draw in current moves to on evt.
// Illegal pairs return ErrInvalidTransition.
func NextStatus(current DrawStatus, evt DrawEvent) (DrawStatus, error) {
	switch current {
	case DrawStatusPending:
		switch evt {
		case DrawEventStart:
			return DrawStatusInProgress, nil
		case DrawEventCancel:
			return DrawStatusCancelled, nil
		}
	case DrawStatusInProgress:
		switch evt {
		case DrawEventComplete:
			return DrawStatusCompleted, nil
		case DrawEventCancel:
			return DrawStatusCancelled, nil
		}
	}
	return "", fmt.Errorf("%w: %s --%s--> ?", ErrInvalidTransition, current, evt)
}

// CompleteTransition applies the complete event, which additionally requires
// a non-empty set of winning numbers.
func CompleteTransition(current DrawStatus, numbers []int) (DrawStatus, error) {
	next, err := NextStatus(current, DrawEventComplete)
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", fmt.Errorf("%w: winning numbers must not be empty", ErrValidation)
	}
	return next, nil
}
