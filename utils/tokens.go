package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

// AccessToken is the claim set embedded in access tokens.
type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken"`
}

func CreateTokenPair(id uint) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	userID := strconv.FormatUint(uint64(id), 10)

	refreshClaims := jwt.Claims{Subject: userID}

	// Load role for embedding into access token
	var u models.User
	role := "player"
	if err := storage.DB.Select("id, role").First(&u, id).Error; err == nil && u.Role != "" {
		role = u.Role
	}

	accessTokenClaims := AccessToken{
		ID:   id,
		Role: role,
	}

	accessToken, err := accessTokenSigner.Sign(accessTokenClaims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &tokenPair, nil
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)
	_, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()

	if tokenErr != nil {
		CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*jwt.Claims)
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, err := CreateTokenPair(uint(id))
	if err != nil {
		CreateInternalServerError(ctx)
		return
	}

	// Rotate: the old refresh token is single use.
	storage.Redis.Del(bgContext, tokenStr)

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
