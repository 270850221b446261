package routes

import (
	"encoding/json"
	"strings"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"omitempty,oneof=player owner"`
	City     string `json:"city"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := userInput.Role
	if role == "" {
		role = "player"
	}

	newUser = models.User{
		Name:     userInput.Name,
		Email:    strings.ToLower(userInput.Email),
		Password: hashedPassword,
		City:     userInput.City,
		Role:     role,
	}

	storage.DB.Create(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

func GetUser(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

type AlterPushTokenInput struct {
	Token string `json:"token" validate:"required"`
}

// AlterPushToken registers a device push token for the authenticated user.
func AlterPushToken(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input AlterPushTokenInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	tokens := []string{}
	if user.PushTokens != nil {
		_ = json.Unmarshal(user.PushTokens, &tokens)
	}
	for _, t := range tokens {
		if t == input.Token {
			ctx.JSON(user)
			return
		}
	}
	tokens = append(tokens, input.Token)

	raw, err := json.Marshal(tokens)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	user.PushTokens = datatypes.JSON(raw)
	allows := true
	user.AllowsNotifications = &allows
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(user)
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil && userExistsQuery.Error != gorm.ErrRecordNotFound {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"role":         user.Role,
		"city":         user.City,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
