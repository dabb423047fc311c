// internal/app/sync/reconcile/reconcile.go

// Package reconcile holds the pure functions that turn pushed documents
// into view state: roster merging, leaderboard ordering, task counting.
// Nothing here touches the database or the clock.
package reconcile

import (
	"sort"

	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry is one person on a role's roster, with the score denormalized
// from their embedded summary for that role.
type Entry struct {
	UserID        primitive.ObjectID `json:"user_id"`
	Name          string             `json:"name"`
	PhotoURL      string             `json:"photo_url"`
	Points        int64              `json:"points"`
	TaskCompleted int64              `json:"task_completed"`
}

// FromUser builds a roster entry for one role. A user whose summary list
// lacks the role scores zero; they are still listed.
func FromUser(u models.User, roleID primitive.ObjectID) Entry {
	e := Entry{
		UserID:   u.ID,
		Name:     u.Name,
		PhotoURL: u.PhotoURL,
	}
	if s, ok := u.SummaryFor(roleID); ok {
		e.Points = s.Points
		e.TaskCompleted = s.TaskCompleted
	}
	return e
}

// MergeEntry folds one updated entry into a roster: any previous entry
// for the same user is removed and the new one appended. The rest keep
// their relative order.
func MergeEntry(roster []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(roster)+1)
	for _, cur := range roster {
		if cur.UserID != e.UserID {
			out = append(out, cur)
		}
	}
	return append(out, e)
}

// RemoveEntry drops a user from the roster. Absent users are a no-op.
func RemoveEntry(roster []Entry, userID primitive.ObjectID) []Entry {
	out := make([]Entry, 0, len(roster))
	for _, cur := range roster {
		if cur.UserID != userID {
			out = append(out, cur)
		}
	}
	return out
}

// Prune drops roster entries whose user is no longer in the member set,
// keeping order. It runs whenever the role document changes.
func Prune(roster []Entry, members []primitive.ObjectID) []Entry {
	keep := make(map[primitive.ObjectID]bool, len(members))
	for _, id := range members {
		keep[id] = true
	}
	out := make([]Entry, 0, len(roster))
	for _, cur := range roster {
		if keep[cur.UserID] {
			out = append(out, cur)
		}
	}
	return out
}

// Roster reconciles a full pushed user set against the previous roster.
// Users already present are updated in place, newcomers are appended in
// push order, and users missing from the push are dropped. Ids in the
// member set with no user document simply never appear.
func Roster(prev []Entry, roleID primitive.ObjectID, users []models.User) []Entry {
	fresh := make(map[primitive.ObjectID]Entry, len(users))
	order := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		fresh[u.ID] = FromUser(u, roleID)
		order = append(order, u.ID)
	}

	seen := make(map[primitive.ObjectID]bool, len(prev))
	out := make([]Entry, 0, len(users))
	for _, cur := range prev {
		if e, ok := fresh[cur.UserID]; ok {
			out = append(out, e)
			seen[cur.UserID] = true
		}
	}
	for _, id := range order {
		if !seen[id] {
			out = append(out, fresh[id])
			seen[id] = true
		}
	}
	return out
}

// Leaderboard orders a roster by points, highest first, excluding
// admins. The sort is stable, so equal scores keep their roster order.
// The input roster is not modified.
func Leaderboard(roster []Entry, admins models.AdminSet) []Entry {
	out := make([]Entry, 0, len(roster))
	for _, e := range roster {
		if !admins.Contains(e.UserID) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

// IncompleteCount reports how many of the given tasks are still open.
func IncompleteCount(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Complete {
			n++
		}
	}
	return n
}

// PendingIDs extracts the hydration set for a role's join requests.
func PendingIDs(role models.Role) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(role.PendingRequests))
	copy(out, role.PendingRequests)
	return out
}
