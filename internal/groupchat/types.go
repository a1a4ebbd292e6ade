// Package groupchat analyzes group conversations in the message store:
// per-participant message counts and tapback (reaction) attribution.
//
// Attribution runs two strictly ordered passes over a single query
// result. Pass 1 indexes every message GUID to its sender; pass 2 walks
// the reactions and credits each one to the reacting sender (sent) and,
// via the index, to the original message's sender (received). The index
// must be complete before pass 2 starts because a reaction can reference
// a message that appears later in timestamp order.
package groupchat

// ChatSummary describes one group chat without reaction attribution.
type ChatSummary struct {
	ChatID         int64
	ChatIdentifier string
	DisplayName    string
	Participants   []string // raw handle identifiers, sorted
	TotalMessages  int
	FirstRaw       int64
	LastRaw        int64
}

// ParticipantStats holds one participant's share of a group chat.
type ParticipantStats struct {
	Name             string
	MessageCount     int
	TapbacksSent     map[string]int // tapback label → count
	TapbacksReceived map[string]int
}

// TotalSent sums the tapbacks this participant gave.
func (p ParticipantStats) TotalSent() int { return sumCounts(p.TapbacksSent) }

// TotalReceived sums the tapbacks this participant's messages earned.
func (p ParticipantStats) TotalReceived() int { return sumCounts(p.TapbacksReceived) }

func sumCounts(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// DanglingReaction records a reaction whose target GUID was never seen
// in the chat. It is recoverable: the reaction still counts as sent, no
// one receives it, and the analysis carries on. The orchestrating caller
// decides whether to log it.
type DanglingReaction struct {
	ReactorName string
	TargetGUID  string
	TapbackType string
}

// ChatAnalysis is the full per-participant breakdown of one group chat.
type ChatAnalysis struct {
	ChatID       int64
	DisplayName  string
	Participants []ParticipantStats // sorted by message count descending
	Dangling     []DanglingReaction
}

// senderKind distinguishes the three ways a message row identifies its
// sender.
type senderKind int

const (
	senderSelf senderKind = iota
	senderHandle
	senderUnknown
)

// senderKey identifies a participant within one chat analysis.
type senderKey struct {
	kind       senderKind
	identifier string // raw handle identifier; empty for self/unknown
}
