package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ikit-news/internal/flash"
	"ikit-news/internal/model"
	"ikit-news/internal/news"
	"ikit-news/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home.html", "Новости ИКИТ", map[string]interface{}{
		"Articles": s.catalog.List(),
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	// The detail page always shows the featured article.
	article := s.catalog.Featured()
	thread := s.threads.Open(sess.ID, article.ID)

	s.render(w, r, "article.html", article.Title, map[string]interface{}{
		"RouteID":    mux.Vars(r)["id"],
		"Article":    article,
		"Comments":   thread.Comments,
		"CanHide":    sess.Can(model.ActionHideArticle),
		"CanComment": sess.Can(model.ActionComment),
	})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	back := "/article/" + mux.Vars(r)["id"]

	user, ok := sess.User()
	if !ok || !sess.Can(model.ActionComment) {
		s.notify(r, flash.Error("Требуется авторизация", "Войдите в систему для добавления комментариев"))
		redirect(w, r, "/login")
		return
	}

	body := r.FormValue("comment")
	if strings.TrimSpace(body) == "" {
		redirect(w, r, back)
		return
	}

	s.threads.Append(sess.ID, s.catalog.Featured().ID, user.Username, body)
	s.notify(r, flash.Success("Комментарий добавлен", "Ваш комментарий успешно опубликован"))
	redirect(w, r, back)
}

// handleHide acknowledges the request. Articles are mock data, so nothing is removed.
func (s *Server) handleHide(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Can(model.ActionHideArticle) {
		redirect(w, r, "/")
		return
	}
	s.logger.Info("Hide requested", zap.String("sid", sess.ID), zap.String("article", mux.Vars(r)["id"]))
	s.notify(r, flash.Success("Пост скрыт", "Публикация больше не отображается на портале"))
	redirect(w, r, "/")
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", "Вход", nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	_, err := sess.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if errors.Is(err, session.ErrInvalidCredentials) {
		s.notify(r, flash.Error("Ошибка", "Неверный email или пароль"))
		redirect(w, r, "/login")
		return
	}
	if err != nil {
		s.logger.Error("Login failed", zap.String("sid", sess.ID), zap.Error(err))
		s.notify(r, flash.Error("Ошибка", "Не удалось выполнить вход"))
		redirect(w, r, "/login")
		return
	}

	s.notify(r, flash.Success("Успешный вход", "Добро пожаловать!"))
	redirect(w, r, "/")
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", "Регистрация", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	u, err := sess.Register(r.Context(), r.FormValue("username"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		s.logger.Error("Registration failed", zap.String("sid", sess.ID), zap.Error(err))
		s.notify(r, flash.Error("Ошибка", "Не удалось зарегистрироваться"))
		redirect(w, r, "/register")
		return
	}

	s.notify(r, flash.Success("Регистрация завершена", fmt.Sprintf("Добро пожаловать, %s!", u.Username)))
	redirect(w, r, "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Logout(r.Context()); err != nil {
		s.logger.Error("Logout failed", zap.String("sid", sess.ID), zap.Error(err))
		s.notify(r, flash.Error("Ошибка", "Не удалось выйти из системы"))
	}
	redirect(w, r, "/")
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	user, ok := sess.User()
	if !ok {
		redirect(w, r, "/login")
		return
	}

	s.render(w, r, "profile.html", "Личный кабинет", map[string]interface{}{
		"User":      user,
		"Editing":   r.URL.Query().Get("edit") == "1",
		"CanCreate": sess.Can(model.ActionCreateArticle),
		"CanGrant":  sess.Can(model.ActionGrantRoles),
	})
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess.State() == session.Anonymous {
		redirect(w, r, "/login")
		return
	}

	username, email := r.FormValue("username"), r.FormValue("email")
	if _, err := sess.UpdateUser(r.Context(), model.UserPatch{Username: &username, Email: &email}); err != nil {
		s.logger.Error("Profile update failed", zap.String("sid", sess.ID), zap.Error(err))
		s.notify(r, flash.Error("Ошибка", "Не удалось сохранить изменения"))
		redirect(w, r, "/profile")
		return
	}

	s.notify(r, flash.Success("Успешно", "Данные обновлены"))
	redirect(w, r, "/profile")
}

func (s *Server) handleCreatePostForm(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).Can(model.ActionCreateArticle) {
		redirect(w, r, "/")
		return
	}
	s.render(w, r, "create_post.html", "Создание новости", map[string]interface{}{
		"Categories": news.Categories,
	})
}

// handleCreatePost only confirms the submission; posts are not stored.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Can(model.ActionCreateArticle) {
		redirect(w, r, "/")
		return
	}
	s.logger.Info("Post submitted", zap.String("sid", sess.ID), zap.String("title", r.FormValue("title")))
	s.notify(r, flash.Success("Пост создан", "Ваша публикация успешно добавлена"))
	redirect(w, r, "/")
}

func (s *Server) handleGrantForm(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).Can(model.ActionGrantRoles) {
		redirect(w, r, "/")
		return
	}
	s.render(w, r, "grant_permissions.html", "Управление правами", map[string]interface{}{
		"Roles": model.Roles,
	})
}

// handleGrant only confirms the grant; roles of other users are not stored.
func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Can(model.ActionGrantRoles) {
		redirect(w, r, "/")
		return
	}

	email := r.FormValue("email")
	role, err := model.ParseRole(r.FormValue("role"))
	if err != nil {
		s.notify(r, flash.Error("Ошибка", "Неизвестная роль"))
		redirect(w, r, "/grant-permissions")
		return
	}

	s.logger.Info("Role grant submitted", zap.String("sid", sess.ID), zap.String("email", email), zap.String("role", string(role)))
	s.notify(r, flash.Success("Права обновлены", fmt.Sprintf("Пользователю %s назначена роль: %s", email, role.Label())))
	redirect(w, r, "/grant-permissions")
}
