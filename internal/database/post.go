package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrEmptyText        = errors.New("post text must not be empty")
	ErrPostCreateFailed = errors.New("failed to create post")
	ErrPostUpdateFailed = errors.New("failed to update post")
	ErrPostDeleteFailed = errors.New("failed to delete post")
	ErrNotPostAuthor    = errors.New("only the author may change this post")
)

const postColumns = `p.id, p.text, p.pub_date, p.author_id, p.group_id, u.username,
			  g.id, g.title, g.slug, g.description`

const postJoins = `FROM posts p
			  JOIN users u ON p.author_id = u.id
			  LEFT JOIN post_groups g ON p.group_id = g.id`

type PostService struct {
	db  *Database
	now func() time.Time
}

func NewPostService(db *Database) *PostService {
	return &PostService{db: db, now: time.Now}
}

// CreatePost stores a post by authorID, stamped with the current time.
// groupID may be nil.
func (ps *PostService) CreatePost(ctx context.Context, text string, authorID int, groupID *int) (*models.Post, error) {
	if err := ps.validatePostData(text); err != nil {
		return nil, err
	}

	if err := ps.checkGroupExists(ctx, groupID); err != nil {
		return nil, err
	}

	query := `INSERT INTO posts (text, pub_date, author_id, group_id)
			  VALUES (?, ?, ?, ?) RETURNING id`

	post := models.Post{
		Text:     text,
		PubDate:  ps.now(),
		AuthorID: authorID,
		GroupID:  groupID,
	}

	err := ps.db.DBConn.QueryRowContext(ctx, query, text, toUnix(post.PubDate), authorID, nullableID(groupID)).Scan(&post.ID)
	if err != nil {
		return nil, ps.writeError(ctx, ErrPostCreateFailed, groupID, err)
	}

	return &post, nil
}

// GetPost returns the post with its author name and group.
func (ps *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
			  ` + postJoins + `
			  WHERE p.id = ?`

	post, err := scanPost(ps.db.DBConn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// ListPosts returns one window of posts matching filter, newest first.
func (ps *PostService) ListPosts(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + postColumns + `
			  ` + postJoins + where + `
			  ORDER BY p.pub_date DESC, p.id DESC
			  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := ps.db.DBConn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// CountPosts counts the posts matching filter.
func (ps *PostService) CountPosts(ctx context.Context, filter models.PostFilter) (int, error) {
	where, args := filterClause(filter)
	var count int
	err := ps.db.DBConn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&count)
	return count, err
}

// UpdatePost overwrites text and group. Author and pub_date never change.
func (ps *PostService) UpdatePost(ctx context.Context, id int, text string, groupID *int) error {
	if err := ps.validatePostData(text); err != nil {
		return err
	}

	if err := ps.checkGroupExists(ctx, groupID); err != nil {
		return err
	}

	result, err := ps.db.DBConn.ExecContext(ctx, `UPDATE posts SET text = ?, group_id = ? WHERE id = ?`,
		text, nullableID(groupID), id)
	if err != nil {
		return ps.writeError(ctx, ErrPostUpdateFailed, groupID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// DeletePost removes a post on behalf of its author.
func (ps *PostService) DeletePost(ctx context.Context, id int, authorID int) error {
	owner, err := ps.postAuthor(ctx, id)
	if err != nil {
		return err
	}
	if owner != authorID {
		return ErrNotPostAuthor
	}

	result, err := ps.db.DBConn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostDeleteFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (ps *PostService) postAuthor(ctx context.Context, postID int) (int, error) {
	var authorID int
	err := ps.db.DBConn.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = ?`, postID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return authorID, nil
}

func (ps *PostService) checkGroupExists(ctx context.Context, groupID *int) error {
	if groupID == nil {
		return nil
	}
	var exists int
	err := ps.db.DBConn.QueryRowContext(ctx, `SELECT 1 FROM post_groups WHERE id = ?`, *groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGroupNotFound
	}
	return err
}

// writeError maps a failed insert or update. A group deleted after
// checkGroupExists surfaces as a foreign key violation and is reported as
// ErrGroupNotFound.
func (ps *PostService) writeError(ctx context.Context, failed error, groupID *int, err error) error {
	if isForeignKeyViolation(err) && groupID != nil {
		if errors.Is(ps.checkGroupExists(ctx, groupID), ErrGroupNotFound) {
			return ErrGroupNotFound
		}
	}
	return fmt.Errorf("%w: %v", failed, err)
}

// validatePostData rejects text that is empty once whitespace is trimmed.
func (ps *PostService) validatePostData(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var pubDate int64
	var postGroupID, groupID sql.NullInt64
	var title, groupSlug, description sql.NullString

	err := row.Scan(&post.ID, &post.Text, &pubDate, &post.AuthorID, &postGroupID, &post.Username,
		&groupID, &title, &groupSlug, &description)
	if err != nil {
		return nil, err
	}

	post.PubDate = fromUnix(pubDate)
	if postGroupID.Valid && groupID.Valid {
		id := int(groupID.Int64)
		post.GroupID = &id
		post.Group = &models.Group{
			ID:          id,
			Title:       title.String,
			Slug:        groupSlug.String,
			Description: description.String,
		}
	}

	return &post, nil
}

func filterClause(filter models.PostFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.GroupID != 0 {
		conds = append(conds, "p.group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.AuthorID != 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "\n			  WHERE " + strings.Join(conds, " AND "), args
}

func nullableID(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}
