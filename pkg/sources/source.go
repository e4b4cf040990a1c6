// Package sources defines the two external data sources the sync pipeline
// consumes and the response shapes it reads from them: the provider
// bootstrap snapshot (players and teams) and the curated cross-reference
// mapping from stable code to external id.
//
// Only the fields the pipeline uses are modeled.
package sources

import "context"

// ID identifies an external source.
type ID string

// Source identifiers.
const (
	BootstrapID ID = "bootstrap"
	CrossRefID  ID = "crossref"
)

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// SnapshotSource fetches the provider's current player and team lists.
type SnapshotSource interface {
	ID() ID
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// CrossRefSource fetches the code-to-external-id mapping.
type CrossRefSource interface {
	ID() ID
	FetchCrossRef(ctx context.Context) (*CrossRef, error)
}

// Snapshot is the provider bootstrap document.
type Snapshot struct {
	Elements []PlayerRecord `json:"elements"`
	Teams    []TeamRecord   `json:"teams"`
}

// PlayerRecord is one player entry of a snapshot.
type PlayerRecord struct {
	Code          int64  `json:"code"`
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name"`
	WebName       string `json:"web_name"`
	ID            int64  `json:"id"`
	TeamCode      int    `json:"team_code"`
	MinutesPlayed int    `json:"minutes"`
}

// DisplayName joins first and second name with a single space.
func (p PlayerRecord) DisplayName() string {
	return p.FirstName + " " + p.SecondName
}

// TeamRecord is one team entry of a snapshot.
type TeamRecord struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// TeamNames returns the team code to display name map observed in the snapshot.
func (s *Snapshot) TeamNames() map[int]string {
	out := make(map[int]string, len(s.Teams))
	for _, t := range s.Teams {
		if t.Name != "" {
			out[t.Code] = t.Name
		}
	}
	return out
}

// CrossRef maps stable codes to external ids, preserving source order.
type CrossRef struct {
	entries map[int64]string
	order   []int64
}

// NewCrossRef creates an empty mapping.
func NewCrossRef() *CrossRef {
	return &CrossRef{entries: make(map[int64]string)}
}

// Set records the external id for code. A later empty value never clears
// an earlier non-empty one.
func (c *CrossRef) Set(code int64, externalID string) {
	if existing, ok := c.entries[code]; ok {
		if externalID != "" {
			c.entries[code] = externalID
		} else if existing == "" {
			c.entries[code] = ""
		}
		return
	}
	c.entries[code] = externalID
	c.order = append(c.order, code)
}

// Get returns the external id for code.
func (c *CrossRef) Get(code int64) (string, bool) {
	id, ok := c.entries[code]
	return id, ok
}

// Len returns the number of codes in the mapping.
func (c *CrossRef) Len() int {
	return len(c.entries)
}

// Codes returns the codes in the order they were first seen.
func (c *CrossRef) Codes() []int64 {
	out := make([]int64, len(c.order))
	copy(out, c.order)
	return out
}
