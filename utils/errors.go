package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"status": statusCode,
		"title":  title,
		"detail": detail,
	})
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Email already registered", ctx)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", ctx)
}

func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := wrapValidationErrors(errs)

		ctx.StopWithProblem(
			iris.StatusBadRequest,
			iris.NewProblem().
				Title("Validation error").
				Detail("One or more fields failed to be validated").
				Key("errors", validationErrors))
		return
	}

	CreateInternalServerError(ctx)
}

type validationError struct {
	ActualTag string      `json:"tag"`
	Namespace string      `json:"namespace"`
	Kind      string      `json:"kind"`
	Type      string      `json:"type"`
	Value     interface{} `json:"value"`
	Param     string      `json:"param"`
}

func wrapValidationErrors(errs validator.ValidationErrors) []validationError {
	validationErrors := make([]validationError, 0, len(errs))
	for _, validationErr := range errs {
		validationErrors = append(validationErrors, validationError{
			ActualTag: validationErr.ActualTag(),
			Namespace: validationErr.Namespace(),
			Kind:      validationErr.Kind().String(),
			Type:      validationErr.Type().String(),
			Value:     validationErr.Value(),
			Param:     validationErr.Param(),
		})
	}
	return validationErrors
}
