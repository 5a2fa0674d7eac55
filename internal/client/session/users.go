package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/transport"
)

type listResponse struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Data       []models.User `json:"data"`
}

type userResponse struct {
	Data *models.User `json:"data"`
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}

// FetchPage returns one page of the directory. A page past the last one is
// not an error; it comes back with whatever the remote sent, typically no
// items.
func (m *Manager) FetchPage(ctx context.Context, page int) (*models.Page, error) {
	var resp listResponse
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := m.api.Do(ctx, http.MethodGet, "/users", nil, &resp, transport.WithQuery(q)); err != nil {
		return nil, domainError(err)
	}

	number := resp.Page
	if number == 0 {
		number = page
	}
	items := resp.Data
	if items == nil {
		items = []models.User{}
	}
	return &models.Page{
		Items:      items,
		Number:     number,
		TotalPages: resp.TotalPages,
		PerPage:    resp.PerPage,
		Total:      resp.Total,
	}, nil
}

// FetchOne returns the user with id. A missing user surfaces as a remote
// rejection for which IsNotFound is true.
func (m *Manager) FetchOne(ctx context.Context, id int) (*models.User, error) {
	var resp userResponse
	if err := m.api.Do(ctx, http.MethodGet, userPath(id), nil, &resp); err != nil {
		return nil, domainError(err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("GET %s: %w", userPath(id), errEmptyUser)
	}
	return resp.Data, nil
}

// UpdateOne sends the editable fields of a user. The returned ack echoes
// what the remote accepted; nothing is persisted locally.
func (m *Manager) UpdateOne(ctx context.Context, id int, upd models.UserUpdate) (*models.UpdateAck, error) {
	var ack models.UpdateAck
	if err := m.api.Do(ctx, http.MethodPut, userPath(id), upd, &ack); err != nil {
		return nil, domainError(err)
	}
	return &ack, nil
}

// DeleteOne removes the user with id on the remote.
func (m *Manager) DeleteOne(ctx context.Context, id int) error {
	if err := m.api.Do(ctx, http.MethodDelete, userPath(id), nil, nil); err != nil {
		return domainError(err)
	}
	return nil
}
