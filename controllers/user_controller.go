package controllers

import (
	"net/http"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := uc.Users.GetUser(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"full_name":       user.FullName,
		"profile_picture": user.ProfilePicture,
		"membership":      user.Membership,
		"role":            user.Role,
		"capabilities":    services.CapabilitiesFor(user.Membership),
		"joined_at":       user.CreatedAt,
	})
}

type profileUpdateInput struct {
	FullName      string `json:"full_name"`
	PictureBase64 string `json:"picture_base64"` // data URL, uploaded to the asset store
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var input profileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.ProfileInput{FullName: input.FullName}
	if input.PictureBase64 != "" {
		url, err := utils.UploadBase64Image(input.PictureBase64, "profile-pictures")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
			return
		}
		in.ProfilePicture = url
	}

	user, err := uc.Users.UpdateProfile(c.GetUint("userID"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "profile_picture": user.ProfilePicture})
}

// admin

func (uc *UserController) ListUsers(c *gin.Context) {
	users, total, err := uc.Users.ListUsers(
		c.Query("search"),
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 20),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":         u.ID,
			"email":      u.Email,
			"full_name":  u.FullName,
			"membership": u.Membership,
			"role":       u.Role,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "total": total})
}

func (uc *UserController) PromoteToAdmin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := uc.Users.PromoteToAdmin(id, callerRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user promoted to admin"})
}
