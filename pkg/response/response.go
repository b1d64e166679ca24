package response

import (
	"fmt"

	"github.com/ecomarket/user-service/internal/domain/entity"
)

// Link is a hypermedia reference in HAL style.
type Link struct {
	Href string `json:"href"`
}

// UserPayload is the wire representation of a user. The password hash never
// appears. Links is populated only when hypermedia is enabled.
type UserPayload struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"fullName,omitempty"`
	Links    map[string]Link `json:"_links,omitempty"`
}

// Builder renders user payloads, optionally decorating them with _links.
// Hypermedia is a presentation choice; the domain layer never sees it.
type Builder struct {
	BaseURL    string
	Hypermedia bool
}

func NewBuilder(baseURL string, hypermedia bool) *Builder {
	return &Builder{BaseURL: baseURL, Hypermedia: hypermedia}
}

func (b *Builder) User(u *entity.User) UserPayload {
	p := UserPayload{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
	if b.Hypermedia {
		self := fmt.Sprintf("%s/api/users/%d", b.BaseURL, u.ID)
		p.Links = map[string]Link{
			"self":   {Href: self},
			"users":  {Href: b.BaseURL + "/api/users"},
			"update": {Href: self},
			"delete": {Href: self},
		}
	}
	return p
}

func (b *Builder) Users(us []*entity.User) []UserPayload {
	out := make([]UserPayload, 0, len(us))
	for _, u := range us {
		out = append(out, b.User(u))
	}
	return out
}
