package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"yatube/internal/models"
)

var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrSlugExists        = errors.New("a group with that slug already exists")
	ErrEmptyGroupTitle   = errors.New("group title must not be empty")
	ErrLongGroupTitle    = errors.New("group title must be at most 200 characters")
	ErrEmptySlug         = errors.New("slug must not be empty")
	ErrLongSlug          = errors.New("slug must be at most 50 characters")
	ErrInvalidSlug       = errors.New("slug may contain only letters, digits, underscores and hyphens")
	ErrEmptyDescription  = errors.New("group description must not be empty")
	ErrGroupCreateFailed = errors.New("failed to create group")
	ErrGroupDeleteFailed = errors.New("failed to delete group")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

const maxSlugLength = 50

type GroupService struct {
	db *Database
}

func NewGroupService(db *Database) *GroupService {
	return &GroupService{db: db}
}

// CreateGroup stores a new group. An empty slug is derived from the title.
func (gs *GroupService) CreateGroup(ctx context.Context, title, groupSlug, description string) (*models.Group, error) {
	title = strings.TrimSpace(title)
	groupSlug = strings.TrimSpace(groupSlug)
	description = strings.TrimSpace(description)

	if groupSlug == "" {
		groupSlug = makeSlug(title)
	}

	if err := gs.validateGroupData(title, groupSlug, description); err != nil {
		return nil, err
	}

	if err := gs.checkSlugUniqueness(ctx, groupSlug); err != nil {
		return nil, err
	}

	query := `INSERT INTO post_groups (title, slug, description) VALUES (?, ?, ?) RETURNING id`

	group := models.Group{
		Title:       title,
		Slug:        groupSlug,
		Description: description,
	}
	err := gs.db.DBConn.QueryRowContext(ctx, query, title, groupSlug, description).Scan(&group.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupCreateFailed, err)
	}

	return &group, nil
}

func makeSlug(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

func (gs *GroupService) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM post_groups WHERE id = ?`
	return gs.scanGroup(gs.db.DBConn.QueryRowContext(ctx, query, id))
}

func (gs *GroupService) GetGroupBySlug(ctx context.Context, groupSlug string) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM post_groups WHERE slug = ?`
	return gs.scanGroup(gs.db.DBConn.QueryRowContext(ctx, query, groupSlug))
}

func (gs *GroupService) GetAllGroups(ctx context.Context) ([]*models.Group, error) {
	query := `SELECT id, title, slug, description FROM post_groups ORDER BY title, id`

	rows, err := gs.db.DBConn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}

// DeleteGroup removes the group. Its posts stay, with no group.
func (gs *GroupService) DeleteGroup(ctx context.Context, groupSlug string) error {
	result, err := gs.db.DBConn.ExecContext(ctx, `DELETE FROM post_groups WHERE slug = ?`, groupSlug)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGroupDeleteFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

func (gs *GroupService) scanGroup(row *sql.Row) (*models.Group, error) {
	var group models.Group
	err := row.Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (gs *GroupService) checkSlugUniqueness(ctx context.Context, groupSlug string) error {
	var exists int
	err := gs.db.DBConn.QueryRowContext(ctx, `SELECT 1 FROM post_groups WHERE slug = ?`, groupSlug).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err == nil {
		return ErrSlugExists
	}
	return fmt.Errorf("failed to check slug uniqueness: %v", err)
}

func (gs *GroupService) validateGroupData(title, groupSlug, description string) error {
	if len(title) == 0 {
		return ErrEmptyGroupTitle
	}
	if len([]rune(title)) > 200 {
		return ErrLongGroupTitle
	}
	if len(groupSlug) == 0 {
		return ErrEmptySlug
	}
	if len(groupSlug) > maxSlugLength {
		return ErrLongSlug
	}
	if !slugPattern.MatchString(groupSlug) {
		return ErrInvalidSlug
	}
	if len(description) == 0 {
		return ErrEmptyDescription
	}
	return nil
}
