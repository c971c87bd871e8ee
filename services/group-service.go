package services

import (
	"context"
	"fmt"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupService owns group CRUD and membership. Every mutation except create
// is restricted to the group's owner.
type GroupService struct {
	groups repositories.GroupRepository
	tasks  repositories.TaskRepository
	users  repositories.UserRepository
}

func NewGroupService(groups repositories.GroupRepository, tasks repositories.TaskRepository, users repositories.UserRepository) *GroupService {
	return &GroupService{
		groups: groups,
		tasks:  tasks,
		users:  users,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	group := &models.Group{
		Name:    name,
		OwnerID: ownerID,
		Members: []primitive.ObjectID{},
	}
	id, err := s.groups.Insert(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id
	return group, nil
}

func (s *GroupService) GetGroup(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *GroupService) ListGroups(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	groups, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

func (s *GroupService) RenameGroup(ctx context.Context, id, callerID primitive.ObjectID, name string) (*models.Group, error) {
	group, err := s.ownedGroup(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	group.Name = name
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) AddMember(ctx context.Context, id, callerID, memberID primitive.ObjectID) (*models.Group, error) {
	group, err := s.ownedGroup(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	if group.HasMember(memberID) {
		return group, nil
	}
	group.Members = append(group.Members, memberID)
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) RemoveMember(ctx context.Context, id, callerID, memberID primitive.ObjectID) (*models.Group, error) {
	group, err := s.ownedGroup(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	members := group.Members[:0]
	for _, m := range group.Members {
		if m != memberID {
			members = append(members, m)
		}
	}
	group.Members = members
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) TransferOwnership(ctx context.Context, id, callerID, newOwnerID primitive.ObjectID) (*models.Group, error) {
	group, err := s.ownedGroup(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, newOwnerID); err != nil {
		return nil, err
	}
	group.OwnerID = newOwnerID
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group and cascades deletion to every task scoped
// to it.
func (s *GroupService) DeleteGroup(ctx context.Context, id, callerID primitive.ObjectID) error {
	if _, err := s.ownedGroup(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}
	deleted, err := s.tasks.DeleteByGroup(ctx, id.Hex())
	if err != nil {
		return fmt.Errorf("group deleted but task cascade failed: %v", err)
	}
	logging.Logger.Infof("Event ID: GROUP_DELETED, Description: Deleted group %s and %d of its tasks", id.Hex(), deleted)
	return nil
}

// ownedGroup loads the group and verifies the caller owns it.
func (s *GroupService) ownedGroup(ctx context.Context, id, callerID primitive.ObjectID) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return group, nil
}
