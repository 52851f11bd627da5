package model

// Item is the domain model for a planner entry.
// The name doubles as the key on the wire; ID is only set by stores that have one.
type Item struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"food"`
	Eaten bool   `json:"eaten"`
}

// FoodRequest is the body of the append and delete endpoints.
type FoodRequest struct {
	Food string `json:"food"`
}

// Message is the decoded payload of a mutation response.
type Message struct {
	Message string `json:"message"`
}

// Stats counts eaten and pending items.
func Stats(items []Item) (eaten, pending int) {
	for _, it := range items {
		if it.Eaten {
			eaten++
		} else {
			pending++
		}
	}
	return
}
