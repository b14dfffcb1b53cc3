package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/linuxmatters/doaprep/internal/dataset"
	"github.com/linuxmatters/doaprep/internal/processor"
)

// RecordingTip represents a single piece of actionable capture advice
// derived from how a recording was classified.
type RecordingTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "silence_window_loud")
}

// MaxRecordingTips is the maximum number of tips to return.
const MaxRecordingTips = 5

// tipInput is everything a tip rule may look at.
type tipInput struct {
	kind   dataset.Kind
	result *processor.ProcessingResult
	config *processor.Config
}

// GenerateRecordingTips inspects a processed recording and returns
// prioritised suggestions for the next capture session.
func GenerateRecordingTips(kind dataset.Kind, result *processor.ProcessingResult, config *processor.Config) []RecordingTip {
	if result == nil || result.Calibration == nil || config == nil {
		return nil
	}
	in := tipInput{kind: kind, result: result, config: config}

	var tips []RecordingTip
	firedRules := make(map[string]bool)

	rules := []func(tipInput) *RecordingTip{
		tipSilenceWindowLoud,
		tipSilenceWindowZero,
		tipNoSignal,
		tipLegacyRuleRejects,
		tipLowSignalShare,
		tipSignalInSilence,
		tipEverythingDropped,
		tipShortRecording,
	}

	for _, rule := range rules {
		if tip := rule(in); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, firedRules)

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	if len(tips) > MaxRecordingTips {
		tips = tips[:MaxRecordingTips]
	}

	return tips
}

// applyExclusions removes tips that are redundant when a more specific tip
// has already fired. For example, "low_signal_share" is suppressed when
// "no_signal" fires because the latter already implies the former.
func applyExclusions(tips []RecordingTip, fired map[string]bool) []RecordingTip {
	var result []RecordingTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "low_signal_share":
			if fired["no_signal"] || fired["legacy_rule_rejects"] {
				continue
			}
		case "no_signal":
			if fired["legacy_rule_rejects"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// signalShare is the fraction of classified chunks labelled signal.
func signalShare(r *processor.ProcessingResult) float64 {
	if r.Chunks == 0 {
		return 0
	}
	return float64(r.SignalChunks) / float64(r.Chunks)
}

// tipSilenceWindowLoud fires when the calibration window peaks above -40 dBFS.
// The threshold is then so high that quiet sources never count as active.
func tipSilenceWindowLoud(in tipInput) *RecordingTip {
	peak := sampleDBFS(float64(in.result.Calibration.Peak))
	if peak <= -40.0 {
		return nil
	}
	return &RecordingTip{
		Priority: 9,
		RuleID:   "silence_window_loud",
		Message: fmt.Sprintf("The silence window peaks at %.0f dBFS. Keep the room quiet for the first %.1f seconds after recording starts so the threshold is calibrated on background noise only.",
			peak, in.config.InitialSkipSecs+in.config.SilenceTrainingSecs),
	}
}

// tipSilenceWindowZero fires when the calibration window is digital zero.
func tipSilenceWindowZero(in tipInput) *RecordingTip {
	if in.result.Calibration.Peak != 0 {
		return nil
	}
	return &RecordingTip{
		Priority: 8,
		RuleID:   "silence_window_zero",
		Message:  "The silence window is digital zero, so any non-zero sample counts as active. Check that the array was capturing from the start of the recording.",
	}
}

// tipNoSignal fires when a directional recording produced no signal chunks.
func tipNoSignal(in tipInput) *RecordingTip {
	if in.kind != dataset.KindDirectional || in.result.Chunks == 0 || in.result.SignalChunks > 0 {
		return nil
	}
	return &RecordingTip{
		Priority: 10,
		RuleID:   "no_signal",
		Message:  "No chunk of this directional recording rose above the silence threshold. Raise the source level or move the speaker closer to the array.",
	}
}

// tipLegacyRuleRejects fires when the legacy label rule turned a loud
// directional recording into nothing but silence.
func tipLegacyRuleRejects(in tipInput) *RecordingTip {
	if in.kind != dataset.KindDirectional || in.config.LabelRule != processor.LabelRuleLegacy {
		return nil
	}
	if in.result.Chunks == 0 || in.result.SilenceChunks < in.result.Chunks {
		return nil
	}
	return &RecordingTip{
		Priority: 9,
		RuleID:   "legacy_rule_rejects",
		Message:  "Every chunk was labelled silence under the legacy label rule, which treats active chunks as silence. Try --label-rule activity if this recording contains sustained signal.",
	}
}

// tipLowSignalShare fires when under a fifth of a directional recording is signal.
func tipLowSignalShare(in tipInput) *RecordingTip {
	if in.kind != dataset.KindDirectional || in.result.Chunks == 0 {
		return nil
	}
	share := signalShare(in.result)
	if share == 0 || share >= 0.2 {
		return nil
	}
	return &RecordingTip{
		Priority: 5,
		RuleID:   "low_signal_share",
		Message:  fmt.Sprintf("Only %.0f%% of this recording is signal. Longer continuous playback per position yields more training records.", share*100),
	}
}

// tipSignalInSilence fires when a silence recording is mostly above threshold.
func tipSignalInSilence(in tipInput) *RecordingTip {
	if in.kind != dataset.KindSilence || signalShare(in.result) < 0.5 {
		return nil
	}
	return &RecordingTip{
		Priority: 7,
		RuleID:   "signal_in_silence",
		Message:  "Most of this silence recording rose above its own calibration threshold. Background noise that varies over time will leak into the silence class.",
	}
}

// tipEverythingDropped fires when the random drop discarded every record.
func tipEverythingDropped(in tipInput) *RecordingTip {
	s := in.result.Sink
	if s.Written > 0 || s.Dropped == 0 {
		return nil
	}
	return &RecordingTip{
		Priority: 6,
		RuleID:   "everything_dropped",
		Message:  fmt.Sprintf("All %d records were discarded by the %d%% random drop. Lower --drop-percent to keep some of them.", s.Dropped, in.config.DropPercent),
	}
}

// tipShortRecording fires when less than five seconds follow the silence window.
func tipShortRecording(in tipInput) *RecordingTip {
	usable := in.result.DurationSecs - in.config.InitialSkipSecs - in.config.SilenceTrainingSecs
	if usable >= 5.0 {
		return nil
	}
	return &RecordingTip{
		Priority: 4,
		RuleID:   "short_recording",
		Message:  fmt.Sprintf("Only %.1f seconds follow the silence window. Record longer takes per position.", max(usable, 0)),
	}
}
