package chat

// Stage tracks a turn through the pipeline. Failure is terminal only from
// validation, inbound translation and intent routing; every other stage
// degrades in place.
type Stage int

const (
	StageReceived Stage = iota
	StageLanguageDetected
	StageTranslatedToPivot
	StageIntentRouted
	StageReplySelected
	StageTranslatedToSource
	StageDelivered
	StageFailed
)

// String returns the stage name used in logs and metrics.
func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageLanguageDetected:
		return "language_detected"
	case StageTranslatedToPivot:
		return "translated_to_pivot"
	case StageIntentRouted:
		return "intent_routed"
	case StageReplySelected:
		return "reply_selected"
	case StageTranslatedToSource:
		return "translated_to_source"
	case StageDelivered:
		return "delivered"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}
