package entity

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// URL returns the canonical path of the genre.
func (g Genre) URL() string {
	return GenrePath(g.ID)
}
