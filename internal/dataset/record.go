package dataset

import (
	"fmt"
	"strings"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/source"
)

// Question is the fixed query attached to every parquet row.
const Question = "What action is happening in this scene?"

// Provenance values for the human_or_machine column.
const (
	ProvenanceHuman   = 0
	ProvenanceMachine = 1
)

// maxSecondaryActions caps the lower-confidence labels summarized in the
// follow-up conversation turn.
const maxSecondaryActions = 3

// ParquetRow is one assembled record in the columnar output shape: the
// image inlined as bytes, the fixed question, and the action labels.
type ParquetRow struct {
	Image          []byte   `parquet:"image"`
	Query          string   `parquet:"query"`
	Labels         []string `parquet:"labels,list"`
	HumanOrMachine int64    `parquet:"human_or_machine"`
}

// NewParquetRow assembles a columnar record from a fetched image and its
// source record. Callers must only pass successful fetches.
func NewParquetRow(rec source.ClipRecord, image []byte) ParquetRow {
	return ParquetRow{
		Image:          image,
		Query:          Question,
		Labels:         rec.Actions,
		HumanOrMachine: ProvenanceMachine,
	}
}

// Turn is a single message in a LLaVA conversation. From is "human" or
// "gpt".
type Turn struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

// Conversation is one assembled record in the conversational output
// shape: a reference to the saved image file plus alternating
// human/assistant turns built from the confidence-ranked actions.
type Conversation struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	Conversations []Turn `json:"conversations"`
}

// NewConversation assembles a conversational record. imageFile is the
// saved image filename, as produced by ImageStore.Save. The first action
// is treated as the most certain one; up to three remaining actions are
// summarized in a lower-confidence follow-up exchange.
func NewConversation(rec source.ClipRecord, imageFile string) Conversation {
	turns := []Turn{
		{From: "human", Value: "<image>\nWhat is the most certain action happening in this scene?"},
		{From: "gpt", Value: rec.Label()},
	}

	if len(rec.Actions) > 1 {
		secondary := rec.Actions[1:]
		if len(secondary) > maxSecondaryActions {
			secondary = secondary[:maxSecondaryActions]
		}
		turns = append(turns,
			Turn{From: "human", Value: "Are there other actions that may be happening here?"},
			Turn{From: "gpt", Value: fmt.Sprintf("With lower confidence, the scene may also show: %s.", strings.Join(secondary, ", "))},
		)
	}

	return Conversation{
		ID:            rec.CID,
		Image:         imageFile,
		Conversations: turns,
	}
}
