package model

// Profile holds the optional public details a user shows next to their
// submissions. Name and Avatar are joined in from the user record on read.
type Profile struct {
	UserID        string        `json:"user"`
	Name          string        `json:"name"`
	Avatar        string        `json:"avatar"`
	Website       string        `json:"website,omitempty"`
	Location      string        `json:"location,omitempty"`
	Bio           string        `json:"bio,omitempty"`
	TwitterHandle string        `json:"twitterhandle,omitempty"`
	Publications  []Publication `json:"publications"`
}

// Publication is an entry in a profile's publication list, newest first.
// ID addresses one entry for removal.
type Publication struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Publication string `json:"publication"`
	Description string `json:"description,omitempty"`
}

// FindPublication returns the index of the publication with id, or -1.
func (p *Profile) FindPublication(id string) int {
	for i := range p.Publications {
		if p.Publications[i].ID == id {
			return i
		}
	}
	return -1
}
