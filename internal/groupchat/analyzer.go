package groupchat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mstone/msgstats/internal/contacts"
	"github.com/mstone/msgstats/internal/identity"
)

// SelfName labels the backup owner in participant listings.
const SelfName = "You"

// UnknownParticipant labels messages whose sender handle could not be
// resolved from the store.
const UnknownParticipant = "Unknown Participant"

// ListGroupChats returns a summary of every group chat in the store:
// participant identifier union, total message count, and first/last
// timestamps. Single pass, no reaction attribution.
func ListGroupChats(path string) ([]ChatSummary, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	chats, err := fetchGroupChats(db)
	if err != nil {
		return nil, err
	}
	totals, err := fetchChatTotals(db)
	if err != nil {
		return nil, err
	}
	participants, err := fetchChatParticipants(db)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		name := c.DisplayName
		if name == "" {
			name = c.Identifier
		}
		t := totals[c.RowID]
		summaries = append(summaries, ChatSummary{
			ChatID:         c.RowID,
			ChatIdentifier: c.Identifier,
			DisplayName:    name,
			Participants:   participants[c.RowID],
			TotalMessages:  t.Count,
			FirstRaw:       t.FirstRaw,
			LastRaw:        t.LastRaw,
		})
	}
	return summaries, nil
}

// AnalyzeChat computes the per-participant breakdown of one group chat,
// attributing every tapback to its giver and, through the GUID index, to
// the sender of the message it reacted to. Dangling references come back
// in the result instead of aborting the analysis.
func AnalyzeChat(path string, chatID int64, book *contacts.Book) (*ChatAnalysis, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}

	chats, err := fetchGroupChats(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	var chat *chatRow
	for i := range chats {
		if chats[i].RowID == chatID {
			chat = &chats[i]
			break
		}
	}
	if chat == nil {
		db.Close()
		return nil, fmt.Errorf("no group chat with id %d", chatID)
	}

	rows, err := fetchChatMessages(db, chatID)
	// The analysis itself is pure; release the handle before it runs.
	db.Close()
	if err != nil {
		return nil, err
	}

	analysis := analyze(rows, book)
	analysis.ChatID = chat.RowID
	analysis.DisplayName = chat.DisplayName
	if analysis.DisplayName == "" {
		analysis.DisplayName = chat.Identifier
	}
	return analysis, nil
}

// cleanGUID strips any path-style prefix up to and including the last
// '/'. Reaction references are stored with prefixes like "p:0/<guid>"
// while the message's own guid column holds the bare form.
func cleanGUID(guid string) string {
	if i := strings.LastIndex(guid, "/"); i >= 0 {
		return guid[i+1:]
	}
	return guid
}

func senderOf(r messageRow) senderKey {
	switch {
	case r.FromMe:
		return senderKey{kind: senderSelf}
	case r.Identifier != "":
		return senderKey{kind: senderHandle, identifier: r.Identifier}
	default:
		return senderKey{kind: senderUnknown}
	}
}

// analyze runs the two passes. Pass 1 must complete before pass 2
// starts: a reaction may reference a message that pass 1 has not reached
// yet when processed in a single interleaved sweep.
func analyze(rows []messageRow, book *contacts.Book) *ChatAnalysis {
	stats := make(map[senderKey]*ParticipantStats)
	guidToSender := make(map[string]senderKey, len(rows))

	get := func(key senderKey) *ParticipantStats {
		p, ok := stats[key]
		if !ok {
			p = &ParticipantStats{
				Name:             participantName(key, book),
				TapbacksSent:     make(map[string]int),
				TapbacksReceived: make(map[string]int),
			}
			stats[key] = p
		}
		return p
	}

	// Pass 1: message counts and the GUID → sender index.
	for _, r := range rows {
		sender := senderOf(r)
		get(sender).MessageCount++
		if g := cleanGUID(r.GUID); g != "" {
			guidToSender[g] = sender
		}
	}

	// Pass 2: tapback attribution through the completed index.
	var dangling []DanglingReaction
	for _, r := range rows {
		if r.AssocType == 0 {
			continue
		}
		label := TapbackLabel(r.AssocType)
		reactor := get(senderOf(r))
		reactor.TapbacksSent[label]++

		target := cleanGUID(r.AssocGUID)
		original, ok := guidToSender[target]
		if !ok {
			dangling = append(dangling, DanglingReaction{
				ReactorName: reactor.Name,
				TargetGUID:  target,
				TapbackType: label,
			})
			continue
		}
		get(original).TapbacksReceived[label]++
	}

	participants := make([]ParticipantStats, 0, len(stats))
	for _, p := range stats {
		participants = append(participants, *p)
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].MessageCount != participants[j].MessageCount {
			return participants[i].MessageCount > participants[j].MessageCount
		}
		return participants[i].Name < participants[j].Name
	})

	return &ChatAnalysis{Participants: participants, Dangling: dangling}
}

// participantName resolves a sender key to a display name: the backup
// owner is "You", an unresolvable row is "Unknown Participant", and a
// handle goes through contact resolution and name cleaning, falling back
// to the raw identifier when the address book has no match.
func participantName(key senderKey, book *contacts.Book) string {
	switch key.kind {
	case senderSelf:
		return SelfName
	case senderUnknown:
		return UnknownParticipant
	}
	if c, ok := book.Resolve(key.identifier); ok {
		return identity.CleanName(c.DisplayName)
	}
	return key.identifier
}
