package web

import (
	"errors"
	"net/http"

	"github.com/UkralStul/social-blog-service/internal/auth"
	"github.com/UkralStul/social-blog-service/internal/domain"
	"github.com/UkralStul/social-blog-service/internal/storage"

	"github.com/go-chi/chi/v5"
)

type profileData struct {
	Viewer    *domain.User
	Profile   *domain.User
	Page      *Page
	Following bool
}

// profile renders a user's posts, newest first, plus the follow toggle
// state for signed-in viewers.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := s.store.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	count, err := s.store.CountPostsByAuthor(ctx, profile.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	number, numPages, offset := clampPage(pageNumber(r), count)
	posts, err := s.store.GetPostsByAuthor(ctx, profile.ID, postsPerPage, offset)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	viewer := auth.CurrentUser(ctx)
	following := false
	if viewer != nil {
		following, err = s.store.IsFollowing(ctx, viewer.ID, profile.ID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
	}

	s.render(w, r, http.StatusOK, "profile.html", profileData{
		Viewer:    viewer,
		Profile:   profile,
		Page:      &Page{Posts: posts, Number: number, NumPages: numPages, Count: count},
		Following: following,
	})
}

// followIndex renders posts from the authors the viewer follows. A viewer
// with no follows gets an empty page, still 200.
func (s *Server) followIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := auth.CurrentUser(ctx)

	authorIDs, err := s.store.GetFollowedAuthorIDs(ctx, viewer.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	count, err := s.store.CountPostsByAuthors(ctx, authorIDs)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	number, numPages, offset := clampPage(pageNumber(r), count)
	posts, err := s.store.GetPostsByAuthors(ctx, authorIDs, postsPerPage, offset)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "follow.html", feedData{
		Viewer: viewer,
		Page:   &Page{Posts: posts, Number: number, NumPages: numPages, Count: count},
	})
}

// profileFollow creates a follow edge unless it already exists or the
// target is the viewer; either way the response is a redirect to the
// target's profile.
func (s *Server) profileFollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := auth.CurrentUser(ctx)
	target, ok := s.resolveProfile(w, r)
	if !ok {
		return
	}

	if target.ID != viewer.ID {
		exists, err := s.store.IsFollowing(ctx, viewer.ID, target.ID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if !exists {
			if err := s.store.CreateFollow(ctx, viewer.ID, target.ID); err != nil {
				s.serverError(w, r, err)
				return
			}
		}
	}
	http.Redirect(w, r, "/"+target.Username, http.StatusFound)
}

// profileUnfollow removes the follow edge if present; repeated calls are
// harmless.
func (s *Server) profileUnfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := auth.CurrentUser(ctx)
	target, ok := s.resolveProfile(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteFollow(ctx, viewer.ID, target.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/"+target.Username, http.StatusFound)
}

func (s *Server) resolveProfile(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	target, err := s.store.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return target, true
}
