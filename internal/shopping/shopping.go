// Package shopping builds the downloadable shopping list from a user's cart.
package shopping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/apperr"
	"foodgram/internal/user"
)

// Service builds shopping lists.
type Service struct {
	repo  *Repository
	users *user.Repository
}

// NewService creates a new shopping list service.
func NewService(repo *Repository, users *user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Build aggregates the cart of userID. An empty cart is reported as
// not found rather than as an empty list.
func (s *Service) Build(ctx context.Context, userID int64) (*ShoppingList, error) {
	size, err := s.repo.CartSize(ctx, userID)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, apperr.NotFound("Shopping cart is empty.")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ShoppingList{
		UserID:    userID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Render formats the list as a plain-text document.
func (l *ShoppingList) Render() []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shopping list (%s %s)\n\n", l.FirstName, l.LastName))
	for _, item := range l.Items {
		sb.WriteString(fmt.Sprintf("%s - %d %s\n", item.Name, item.Amount, item.MeasurementUnit))
	}
	return []byte(sb.String())
}

// FileName is the attachment name offered to the browser.
func (l *ShoppingList) FileName() string {
	return fmt.Sprintf("Shopping_cart_%s_%s.txt", fileSafe(l.FirstName), fileSafe(l.LastName))
}

// ContentDisposition is the attachment header for the list. Names outside
// ASCII get an RFC 5987 filename* parameter next to an ASCII fallback.
func (l *ShoppingList) ContentDisposition() string {
	name := l.FileName()
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, name)
	if fallback == name {
		return fmt.Sprintf(`attachment; filename="%s"`, name)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, encodeExtValue(name))
}

// encodeExtValue percent-encodes every byte outside the RFC 5987 attr-char set.
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0:
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0f])
		}
	}
	return sb.String()
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '/', '\\', ' ', '\r', '\n', ';':
			return '_'
		}
		return r
	}, s)
}
