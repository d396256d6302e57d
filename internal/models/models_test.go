package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatar(t *testing.T) {
	u := User{Email: "John@Example.COM "}
	got := u.Avatar(128)

	// md5 of "john@example.com"
	assert.Equal(t, "https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=identicon&s=128", got)
}

func TestAvatarSameMailSameURL(t *testing.T) {
	a := User{Email: "jdoe@example.com"}
	b := User{Email: "JDOE@example.com"}
	assert.Equal(t, a.Avatar(80), b.Avatar(80))
}
