package settings

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idPrefix = "template"

// IDGenerator produces candidate template ids
type IDGenerator func() string

// NewTemplateID returns a fresh "template-<uuid>" identifier, falling back to a
// timestamp and random suffix when no random uuid can be read
func NewTemplateID() string {
	body, err := uuid.NewRandom()
	if err == nil {
		return fmt.Sprintf("%s-%s", idPrefix, body.String())
	}
	return fallbackTemplateID(time.Now())
}

func fallbackTemplateID(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", idPrefix, strconv.FormatInt(now.UnixMilli(), 36), randomBase36(8))
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
