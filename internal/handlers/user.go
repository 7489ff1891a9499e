package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"github.com/miga-registro/registry-api/internal/security"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewUserHandler(db *gorm.DB, authHandler *auth.AuthHandler) *UserHandler {
	return &UserHandler{db: db, authHandler: authHandler}
}

type ListUsersRequest struct {
	pageParams
}

type ListUsersResponse struct {
	Body struct {
		OK          bool          `json:"ok"`
		Users       []models.User `json:"usuarios"`
		TotalItems  int64         `json:"totalItems"`
		TotalPages  int           `json:"totalPages"`
		CurrentPage int           `json:"currentPage"`
	}
}

func (h *UserHandler) list(all bool, input *ListUsersRequest) (*ListUsersResponse, error) {
	page, limit, offset := input.normalize()

	query := h.db.Model(&models.User{})
	if !all {
		query = query.Where("activo = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.L().Error("counting users failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los usuarios")
	}

	var rows []models.User
	if err := query.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		logger.L().Error("listing users failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Error al obtener los usuarios")
	}

	res := &ListUsersResponse{}
	res.Body.OK = true
	res.Body.Users = rows
	res.Body.TotalItems = count
	res.Body.TotalPages = totalPages(count, limit)
	res.Body.CurrentPage = page
	return res, nil
}

func (h *UserHandler) HandleList(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	return h.list(false, input)
}

func (h *UserHandler) HandleListAll(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	return h.list(true, input)
}

type CreateUserRequest struct {
	Body struct {
		FirstName    string `json:"nombre" required:"true"`
		PaternalName string `json:"apellido_paterno" required:"true"`
		MaternalName string `json:"apellido_materno" required:"true"`
		Email        string `json:"email" required:"true"`
		Password     string `json:"password" doc:"Optional; account starts with a random password when omitted"`
		BirthDate    string `json:"fecha_nacimiento" required:"true"`
		Role         string `json:"rol" required:"true"`
	}
}

type CreateUserResponse struct {
	Body struct {
		OK    bool         `json:"ok"`
		User  *models.User `json:"usuario"`
		Token string       `json:"token"`
	}
}

// HandleCreate registers an operator account. An omitted password is replaced
// by a random one; the operator then goes through the setup flow of the
// password-reset endpoints.
func (h *UserHandler) HandleCreate(ctx context.Context, input *CreateUserRequest) (*CreateUserResponse, error) {
	var existing models.User
	err := h.db.Where("email = ?", input.Body.Email).First(&existing).Error
	if err == nil {
		return nil, huma.Error400BadRequest("El email ya está registrado")
	}
	if err != gorm.ErrRecordNotFound {
		logger.L().Error("checking user uniqueness failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	password := input.Body.Password
	if password == "" {
		password = uuid.NewString()
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		logger.L().Error("hashing password failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	user := models.User{
		FirstName:    input.Body.FirstName,
		PaternalName: input.Body.PaternalName,
		MaternalName: input.Body.MaternalName,
		Email:        input.Body.Email,
		Password:     hash,
		BirthDate:    input.Body.BirthDate,
		Active:       true,
		Role:         input.Body.Role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		logger.L().Error("creating user failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	token, err := h.authHandler.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.L().Error("token generation failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Hable con el administrador")
	}

	res := &CreateUserResponse{}
	res.Body.OK = true
	res.Body.User = &user
	res.Body.Token = token
	return res, nil
}

type UpdateUserRequest struct {
	ID   uint `path:"id"`
	Body struct {
		FirstName    *string `json:"nombre,omitempty"`
		PaternalName *string `json:"apellido_paterno,omitempty"`
		MaternalName *string `json:"apellido_materno,omitempty"`
		Email        *string `json:"email,omitempty"`
		BirthDate    *string `json:"fecha_nacimiento,omitempty"`
		Role         *string `json:"rol,omitempty"`
		Active       *bool   `json:"activo,omitempty"`
	}
}

type UserResponse struct {
	Body struct {
		OK   bool         `json:"ok"`
		User *models.User `json:"usuario"`
	}
}

func (h *UserHandler) HandleUpdate(ctx context.Context, input *UpdateUserRequest) (*UserResponse, error) {
	var user models.User
	err := h.db.First(&user, input.ID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Usuario no encontrado")
	}
	if err != nil {
		logger.L().Error("loading user failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el usuario")
	}

	if input.Body.Email != nil && *input.Body.Email != user.Email {
		var clash models.User
		err := h.db.Where("email = ?", *input.Body.Email).First(&clash).Error
		if err == nil {
			return nil, huma.Error400BadRequest("El email ya está en uso")
		}
		if err != gorm.ErrRecordNotFound {
			logger.L().Error("checking user uniqueness failed", zap.Error(err))
			return nil, huma.Error500InternalServerError("Error al actualizar el usuario")
		}
	}

	updates := map[string]any{}
	if input.Body.FirstName != nil {
		updates["nombre"] = *input.Body.FirstName
	}
	if input.Body.PaternalName != nil {
		updates["apellido_paterno"] = *input.Body.PaternalName
	}
	if input.Body.MaternalName != nil {
		updates["apellido_materno"] = *input.Body.MaternalName
	}
	if input.Body.Email != nil {
		updates["email"] = *input.Body.Email
	}
	if input.Body.BirthDate != nil {
		updates["fecha_nacimiento"] = *input.Body.BirthDate
	}
	if input.Body.Role != nil {
		updates["rol"] = *input.Body.Role
	}
	if input.Body.Active != nil {
		updates["activo"] = *input.Body.Active
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No se enviaron campos a actualizar")
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		logger.L().Error("updating user failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al actualizar el usuario")
	}

	res := &UserResponse{}
	res.Body.OK = true
	res.Body.User = &user
	return res, nil
}

type DeleteUserRequest struct {
	ID uint `path:"id"`
}

func (h *UserHandler) HandleDelete(ctx context.Context, input *DeleteUserRequest) (*MessageResponse, error) {
	var user models.User
	err := h.db.Where("id_usuario = ? AND activo = ?", input.ID, true).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("Usuario no encontrado")
	}
	if err != nil {
		logger.L().Error("loading user failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el usuario")
	}

	if err := h.db.Model(&user).Update("activo", false).Error; err != nil {
		logger.L().Error("deleting user failed", zap.Error(err), zap.Uint("id", input.ID))
		return nil, huma.Error500InternalServerError("Error al eliminar el usuario")
	}

	res := &MessageResponse{}
	res.Body.OK = true
	res.Body.Msg = "Usuario eliminado correctamente"
	return res, nil
}
