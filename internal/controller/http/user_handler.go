package http

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"inkwell/internal/entity"
	"inkwell/internal/usecase"
	"inkwell/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
}

func NewUserHandler(userUseCase usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

func userIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid user id",
			apperr.FieldError{Field: "id", Message: "must be a positive integer"})
	}
	return uint(id), nil
}

// Me godoc
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  apperr.ErrorEnvelope
// @Failure      404  {object}  apperr.ErrorEnvelope
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	identity := identityFromContext(c)

	user, err := h.userUseCase.Get(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser godoc
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  apperr.ErrorEnvelope
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary      List users
// @Description  Admin only
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  apperr.ErrorEnvelope
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.userUseCase.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Administrative creation path; may assign any role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateUserRequest true "User data"
// @Success      201  {object}  entity.User
// @Failure      400  {object}  apperr.ErrorEnvelope
// @Failure      403  {object}  apperr.ErrorEnvelope
// @Failure      409  {object}  apperr.ErrorEnvelope
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}

	identity := identityFromContext(c)
	user, err := h.userUseCase.AdminCreate(identity, req.Email, req.Password, req.Name, entity.UserRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Owner or admin
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  apperr.ErrorEnvelope
// @Failure      403  {object}  apperr.ErrorEnvelope
// @Failure      404  {object}  apperr.ErrorEnvelope
// @Failure      409  {object}  apperr.ErrorEnvelope
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}

	identity := identityFromContext(c)
	user, err := h.userUseCase.Update(c.Request.Context(), identity, id, usecase.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Owner or admin
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      204
// @Failure      403  {object}  apperr.ErrorEnvelope
// @Failure      404  {object}  apperr.ErrorEnvelope
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	identity := identityFromContext(c)
	if err := h.userUseCase.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadAvatar godoc
// @Summary      Upload a user avatar
// @Description  Owner or admin; the image is streamed to disk with a size cap
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        avatar formData file true "Avatar image file"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  apperr.ErrorEnvelope
// @Failure      403  {object}  apperr.ErrorEnvelope
// @Failure      404  {object}  apperr.ErrorEnvelope
// @Failure      413  {object}  apperr.ErrorEnvelope
// @Router       /users/{id}/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	// Walk the multipart body ourselves instead of c.FormFile: FormFile
	// parses the whole form up front, which would materialize the entire
	// upload before the store's size guard ever sees a byte.
	reader, err := c.Request.MultipartReader()
	if err != nil {
		respondError(c, apperr.Validation("avatar file is required",
			apperr.FieldError{Field: "avatar", Message: "multipart file part is required"}))
		return
	}

	part, err := avatarPart(reader)
	if err != nil {
		respondError(c, err)
		return
	}
	defer part.Close()

	contentType := part.Header.Get("Content-Type")
	identity := identityFromContext(c)

	user, err := h.userUseCase.SetAvatar(c.Request.Context(), identity, id, part, contentType, part.FileName())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// avatarPart advances the multipart stream to the avatar file part,
// draining any preceding fields, without buffering the body.
func avatarPart(reader *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := reader.NextPart()
		if err != nil {
			return nil, apperr.Validation("avatar file is required",
				apperr.FieldError{Field: "avatar", Message: "multipart file part is required"})
		}
		if part.FormName() == "avatar" && part.FileName() != "" {
			return part, nil
		}
		part.Close()
	}
}
