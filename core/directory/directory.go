// Package directory resolves a login code to a role and a profile.
//
// Resolution walks an ordered list of resolvers; the precedence rule
// (owner before teacher before student) is carried by the order in which the
// resolvers are registered, not by call sites.
package directory

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// Login kinds: the portal the caller is logging into.
const (
	KindAdmin   = "admin"
	KindStudent = "student"
)

// Roles
const (
	RoleOwner   = "admin:owner"
	RoleTeacher = "teacher:"
	RoleStudent = "student:"
)

var ErrNoMatch = errors.New("no account matches this code")

type (
	// Profile is the role-appropriate public view of the resolved account.
	Profile struct {
		Role    string   `json:"role"`
		Name    string   `json:"name"`
		Balance int      `json:"balance,omitempty"`
		ClassID null.Int `json:"class_id,omitempty"`
	}

	// Resolver tries to match a login code against one account source.
	// A miss is reported as ErrNoMatch so the directory can fall through to the
	// next resolver; any other error aborts the whole resolution.
	Resolver interface {
		Serves(kind string) bool
		Resolve(ctx context.Context, code string, classID null.Int) (Profile, error)
	}

	Directory struct {
		resolvers []Resolver
	}
)

func NewDirectory(resolvers ...Resolver) *Directory {
	return &Directory{resolvers: resolvers}
}

func (d *Directory) Resolve(ctx context.Context, code, kind string, classID null.Int) (Profile, error) {
	for _, r := range d.resolvers {
		if !r.Serves(kind) {
			continue
		}
		prof, err := r.Resolve(ctx, code, classID)
		if err == nil {
			return prof, nil
		}
		if errors.Cause(err) == ErrNoMatch {
			continue
		}
		return Profile{}, err
	}
	return Profile{}, ErrNoMatch
}
