package web

import (
	"errors"
	"net/http"

	"github.com/UkralStul/social-blog-service/internal/auth"
	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/forms"
	"github.com/UkralStul/social-blog-service/internal/storage"

	"github.com/go-chi/chi/v5"
)

type feedData struct {
	Viewer *domain.User
	Page   *Page
}

// index renders the home feed. Whole pages are cached by page number for
// the cache TTL; writes elsewhere do not invalidate them.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	key := "index:page=" + r.URL.Query().Get("page")
	if body, ok := s.pageCache.Get(key); ok {
		writeHTML(w, http.StatusOK, body)
		return
	}

	ctx := r.Context()
	count, err := s.store.CountPosts(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	number, numPages, offset := clampPage(pageNumber(r), count)
	posts, err := s.store.GetPosts(ctx, postsPerPage, offset)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := feedData{
		Viewer: auth.CurrentUser(ctx),
		Page:   &Page{Posts: posts, Number: number, NumPages: numPages, Count: count},
	}
	body, err := s.renderBytes("index.html", data)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.pageCache.Set(key, body)
	writeHTML(w, http.StatusOK, body)
}

type groupData struct {
	Viewer *domain.User
	Group  *domain.Group
	Page   *Page
}

// groupPosts renders a group feed built from that group's ten most recent
// posts. Not behind the page cache.
func (s *Server) groupPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group, err := s.store.GetGroupBySlug(ctx, chi.URLParam(r, "slug"))
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	recent, err := s.store.GetPostsByGroup(ctx, group.ID, postsPerPage, 0)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	number, numPages, offset := clampPage(pageNumber(r), len(recent))
	end := offset + postsPerPage
	if end > len(recent) {
		end = len(recent)
	}

	s.render(w, r, http.StatusOK, "group.html", groupData{
		Viewer: auth.CurrentUser(ctx),
		Group:  group,
		Page:   &Page{Posts: recent[offset:end], Number: number, NumPages: numPages, Count: len(recent)},
	})
}

type postFormData struct {
	Viewer *domain.User
	Form   *forms.PostForm
	Groups []*domain.Group
	IsEdit bool
	Action string
}

// newPost shows the submission form and creates posts. Validation failures
// re-render the form with field errors and no redirect.
func (s *Server) newPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := auth.CurrentUser(ctx)

	groups, err := s.store.GetGroups(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "post_form.html", postFormData{
			Viewer: viewer,
			Form:   &forms.PostForm{Errors: map[string]string{}},
			Groups: groups,
			Action: "/new",
		})
		return
	}

	form, err := forms.ParsePostForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	groupID := s.resolveGroup(form, groups)
	if !form.Validate() {
		s.render(w, r, http.StatusOK, "post_form.html", postFormData{
			Viewer: viewer,
			Form:   form,
			Groups: groups,
			Action: "/new",
		})
		return
	}

	post := &domain.Post{
		Text:     form.Text,
		AuthorID: viewer.ID,
		GroupID:  groupID,
	}
	if form.HasImage() {
		path, err := form.SaveImage(s.uploadDir)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		post.Image = path
	}
	if _, err := s.store.CreatePost(ctx, post); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// resolveGroup checks a submitted group id against the known groups and
// returns it in the shape the post record wants. An unknown id becomes a
// field error.
func (s *Server) resolveGroup(form *forms.PostForm, groups []*domain.Group) *string {
	if form.GroupID == "" {
		return nil
	}
	for _, g := range groups {
		if g.ID == form.GroupID {
			id := g.ID
			return &id
		}
	}
	form.Errors["group"] = "Select a valid choice."
	return nil
}

type postViewData struct {
	Viewer   *domain.User
	Profile  *domain.User
	Post     *domain.Post
	Comments []*domain.Comment
	Form     *forms.CommentForm
}

// postView renders a single post with its comments, newest first, and an
// empty comment form.
func (s *Server) postView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, post, ok := s.resolvePost(w, r)
	if !ok {
		return
	}
	comments, err := s.store.GetCommentsByPost(ctx, post.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post_view.html", postViewData{
		Viewer:   auth.CurrentUser(ctx),
		Profile:  profile,
		Post:     post,
		Comments: comments,
		Form:     &forms.CommentForm{Errors: map[string]string{}},
	})
}

// postEdit lets the author change text, group and image. Anyone else who is
// signed in gets silently redirected to the post instead.
func (s *Server) postEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := auth.CurrentUser(ctx)
	profile, post, ok := s.resolvePost(w, r)
	if !ok {
		return
	}
	detailPath := "/" + profile.Username + "/" + post.ID

	if post.AuthorID != viewer.ID {
		http.Redirect(w, r, detailPath, http.StatusFound)
		return
	}

	groups, err := s.store.GetGroups(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if r.Method == http.MethodGet {
		form := &forms.PostForm{Text: post.Text, Errors: map[string]string{}}
		if post.GroupID != nil {
			form.GroupID = *post.GroupID
		}
		s.render(w, r, http.StatusOK, "post_form.html", postFormData{
			Viewer: viewer,
			Form:   form,
			Groups: groups,
			IsEdit: true,
			Action: detailPath + "/edit",
		})
		return
	}

	form, err := forms.ParsePostForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	groupID := s.resolveGroup(form, groups)
	if !form.Validate() {
		s.render(w, r, http.StatusOK, "post_form.html", postFormData{
			Viewer: viewer,
			Form:   form,
			Groups: groups,
			IsEdit: true,
			Action: detailPath + "/edit",
		})
		return
	}

	post.Text = form.Text
	post.GroupID = groupID
	if form.HasImage() {
		path, err := form.SaveImage(s.uploadDir)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		post.Image = path
	}
	if _, err := s.store.UpdatePost(ctx, post); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, detailPath, http.StatusFound)
}

// addComment appends a comment to a post. An invalid submission re-renders
// the detail view with the form errors and the existing comments.
func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := auth.CurrentUser(ctx)
	profile, post, ok := s.resolvePost(w, r)
	if !ok {
		return
	}

	form, err := forms.ParseCommentForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !form.Validate() {
		comments, err := s.store.GetCommentsByPost(ctx, post.ID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "post_view.html", postViewData{
			Viewer:   viewer,
			Profile:  profile,
			Post:     post,
			Comments: comments,
			Form:     form,
		})
		return
	}

	comment := &domain.Comment{
		PostID:   post.ID,
		AuthorID: viewer.ID,
		Text:     form.Text,
	}
	if _, err := s.store.CreateComment(ctx, comment); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/"+profile.Username+"/"+post.ID, http.StatusFound)
}

// resolvePost turns the username and postID route params into records,
// rendering the 404 page when either does not resolve or the post belongs
// to a different author.
func (s *Server) resolvePost(w http.ResponseWriter, r *http.Request) (*domain.User, *domain.Post, bool) {
	ctx := r.Context()
	profile, err := s.store.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, nil, false
	}
	post, err := s.store.GetPostByAuthorAndID(ctx, profile.ID, chi.URLParam(r, "postID"))
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, nil, false
	}
	return profile, post, true
}
