package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotGroupOwner  = errors.New("only the group creator can delete it")
	ErrNotGroupMember = errors.New("user is not a member of this group")
)

const (
	groupsCollection = "groups"
	usersCollection  = "users"
)

// GroupService reads and mutates group membership in the document store.
// Group state lives in two places the mobile clients already use: a members
// array on the group document, and a groupList array on each user document.
type GroupService struct {
	docs   store.DocumentStore
	logger *zap.SugaredLogger
}

func NewGroupService(docs store.DocumentStore, logger *zap.SugaredLogger) *GroupService {
	return &GroupService{docs: docs, logger: logger}
}

// ListGroups joins the user's groupList refs to their group documents.
// Dangling refs (deleted groups) are skipped rather than failing the list.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	userSnap, err := s.docs.Get(ctx, usersCollection+"/"+userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.GroupSummary{}, nil
		}
		return nil, err
	}

	refs := groupRefs(userSnap.Data["groupList"])
	summaries := make([]models.GroupSummary, 0, len(refs))
	for _, ref := range refs {
		snap, err := s.docs.Get(ctx, groupsCollection+"/"+ref.GroupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.logger.Debugw("skipping dangling group ref", "group", ref.GroupID, "user", userID)
				continue
			}
			return nil, err
		}
		summaries = append(summaries, summarize(ref, snap))
	}
	return summaries, nil
}

// LeaveGroup removes the user from the group's members array and the group
// from the user's groupList.
func (s *GroupService) LeaveGroup(ctx context.Context, userID, groupID string) error {
	groupPath := groupsCollection + "/" + groupID
	snap, err := s.docs.Get(ctx, groupPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	members := stringValues(snap.Data["members"])
	kept := make([]interface{}, 0, len(members))
	found := false
	for _, m := range members {
		if m == userID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return ErrNotGroupMember
	}

	if err := s.docs.Update(ctx, groupPath, map[string]interface{}{"members": kept}); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return s.removeGroupRef(ctx, userID, groupID)
}

// DeleteGroup deletes a group the user created, removing it from every
// member's groupList first.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID string) error {
	groupPath := groupsCollection + "/" + groupID
	snap, err := s.docs.Get(ctx, groupPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if snap.String("createdBy") != userID {
		return ErrNotGroupOwner
	}

	for _, member := range stringValues(snap.Data["members"]) {
		if err := s.removeGroupRef(ctx, member, groupID); err != nil {
			// A member whose doc is gone shouldn't block deleting the group.
			s.logger.Warnw("failed to clear group ref", "group", groupID, "member", member, "error", err)
		}
	}

	return s.docs.Delete(ctx, groupPath)
}

// removeGroupRef filters groupID out of one user's groupList array.
func (s *GroupService) removeGroupRef(ctx context.Context, userID, groupID string) error {
	userPath := usersCollection + "/" + userID
	snap, err := s.docs.Get(ctx, userPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	refs, ok := snap.Data["groupList"].([]interface{})
	if !ok {
		return nil
	}
	kept := make([]interface{}, 0, len(refs))
	for _, raw := range refs {
		if m, ok := raw.(map[string]interface{}); ok {
			if id, _ := m["groupId"].(string); id == groupID {
				continue
			}
		}
		kept = append(kept, raw)
	}

	return s.docs.Update(ctx, userPath, map[string]interface{}{"groupList": kept})
}

func groupRefs(v interface{}) []models.GroupRef {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	refs := make([]models.GroupRef, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		ref := models.GroupRef{}
		ref.GroupID, _ = m["groupId"].(string)
		ref.GroupName, _ = m["groupName"].(string)
		ref.Timestamp, _ = m["timestamp"].(string)
		if ref.GroupID != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func summarize(ref models.GroupRef, snap store.Snapshot) models.GroupSummary {
	summary := models.GroupSummary{
		GroupID:     ref.GroupID,
		GroupName:   ref.GroupName,
		GroupImage:  snap.String("groupImage"),
		CreatedBy:   snap.String("createdBy"),
		Members:     stringValues(snap.Data["members"]),
		Timestamp:   ref.Timestamp,
		LastMessage: "No messages yet",
	}

	messages, ok := snap.Data["messages"].([]interface{})
	if ok && len(messages) > 0 {
		if last, ok := messages[len(messages)-1].(map[string]interface{}); ok {
			if text, _ := last["message"].(string); text != "" {
				summary.LastMessage = text
			}
			if ts, _ := last["timestamp"].(string); ts != "" {
				summary.Timestamp = ts
			}
		}
	}
	return summary
}

func stringValues(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
