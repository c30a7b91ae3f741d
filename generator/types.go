package generator

import (
	"strings"
	"time"
)

// Information is the ordered list of facts about a realtor. Order matters: the
// description prompt expects the headline on the first line.
type Information []string

// Prepend puts line in front of the list.
func (i *Information) Prepend(line string) {
	*i = append(Information{line}, *i...)
}

// Clone returns a copy that does not share backing storage.
func (i Information) Clone() Information {
	if i == nil {
		return nil
	}
	out := make(Information, len(i))
	copy(out, i)
	return out
}

// Join renders the list as a single user message.
func (i Information) Join() string {
	return strings.Join(i, "\n")
}

// AdCopy is a validated Google search ad.
type AdCopy struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

// Attempt records one GenerateAd run inside a session.
type Attempt struct {
	Ad        AdCopy    `json:"ad"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
