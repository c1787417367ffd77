package drive

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/drive/v3"

	"github.com/utilitywarehouse/iolib/frame"
)

// Errors returned by permission operations.
var (
	// ErrInvalidRole indicates a role outside writer/commenter/reader.
	ErrInvalidRole = errors.New("invalid permission role")

	// ErrInvalidType indicates a type outside user/group/domain/anyone.
	ErrInvalidType = errors.New("invalid permission type")

	// ErrInvalidMode indicates a SetPermissions mode outside update/replace.
	ErrInvalidMode = errors.New("invalid permissions mode")
)

// SetMode controls how SetPermissions reconciles existing permissions.
type SetMode string

const (
	// SetModeUpdate creates and updates permissions but never deletes.
	SetModeUpdate SetMode = "update"

	// SetModeReplace additionally deletes permissions not in the input.
	// Owner permissions are never deleted.
	SetModeReplace SetMode = "replace"
)

// Permission is one desired permission for a Drive item.
type Permission struct {
	Email string `yaml:"email" json:"email"`
	Role  string `yaml:"role" json:"role"`
	Type  string `yaml:"type,omitempty" json:"type,omitempty"` // defaults to "user"
}

// Permissions manages permissions for Drive items (files, folders or drives).
type Permissions struct {
	svc *drive.Service
}

// NewPermissions creates a permissions manager with full Drive scope.
func NewPermissions(ctx context.Context, serviceAccountJSON string) (*Permissions, error) {
	svc, err := NewService(ctx, false, serviceAccountJSON)
	if err != nil {
		return nil, err
	}
	return &Permissions{svc: svc}, nil
}

// List lists permissions for the item as a frame with columns
// id, type, email, role.
func (p *Permissions) List(ctx context.Context, itemID string) (*frame.Frame, error) {
	resp, err := p.svc.Permissions.List(itemID).
		Context(ctx).
		Fields("permissions/id,permissions/type,permissions/role,permissions/emailAddress").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	result := frame.New("id", "type", "email", "role")
	for _, perm := range resp.Permissions {
		if err := result.AppendRow(perm.Id, perm.Type, perm.EmailAddress, perm.Role); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Create grants a permission and returns its ID. Notification emails are
// suppressed for user and group grantees.
func (p *Permissions) Create(ctx context.Context, itemID string, perm Permission) (string, error) {
	typ := perm.Type
	if typ == "" {
		typ = "user"
	}
	if err := validateType(typ); err != nil {
		return "", err
	}
	if err := validateRole(perm.Role); err != nil {
		return "", err
	}

	call := p.svc.Permissions.Create(itemID, &drive.Permission{
		EmailAddress: perm.Email,
		Type:         typ,
		Role:         perm.Role,
	}).Context(ctx)
	if typ == "user" || typ == "group" {
		call = call.SendNotificationEmail(false)
	}

	created, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("create permission: %w", err)
	}
	return created.Id, nil
}

// Update changes the role of an existing permission and returns its ID.
func (p *Permissions) Update(ctx context.Context, itemID, permissionID, role string) (string, error) {
	if err := validateRole(role); err != nil {
		return "", err
	}
	updated, err := p.svc.Permissions.Update(itemID, permissionID, &drive.Permission{Role: role}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update permission: %w", err)
	}
	return updated.Id, nil
}

// Delete revokes a permission.
func (p *Permissions) Delete(ctx context.Context, itemID, permissionID string) error {
	if err := p.svc.Permissions.Delete(itemID, permissionID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

// SetPermissions reconciles the item's permissions with the desired set.
// In update mode existing permissions are created or role-updated; in replace
// mode permissions absent from the input are also deleted, except the owner.
func (p *Permissions) SetPermissions(ctx context.Context, itemID string, desired []Permission, mode SetMode) error {
	if mode != SetModeUpdate && mode != SetModeReplace {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	current, err := p.List(ctx, itemID)
	if err != nil {
		return err
	}
	type existing struct {
		id   string
		role string
	}
	currentByEmail := make(map[string]existing, current.Len())
	for _, rec := range current.Records() {
		email, _ := rec["email"].(string)
		id, _ := rec["id"].(string)
		role, _ := rec["role"].(string)
		currentByEmail[email] = existing{id: id, role: role}
	}

	for _, perm := range desired {
		if perm.Email == "" || perm.Role == "" {
			return fmt.Errorf("permission requires email and role: %+v", perm)
		}
		cur, ok := currentByEmail[perm.Email]
		delete(currentByEmail, perm.Email)
		if !ok {
			if _, err := p.Create(ctx, itemID, perm); err != nil {
				return err
			}
			continue
		}
		if cur.role != perm.Role {
			if _, err := p.Update(ctx, itemID, cur.id, perm.Role); err != nil {
				return err
			}
		}
	}

	if mode == SetModeReplace {
		for _, cur := range currentByEmail {
			if cur.role == "owner" {
				continue
			}
			if err := p.Delete(ctx, itemID, cur.id); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRole(role string) error {
	switch role {
	case "writer", "commenter", "reader":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

func validateType(typ string) error {
	switch typ {
	case "user", "group", "domain", "anyone":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, typ)
}
