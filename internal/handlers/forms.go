package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var formValidator = validator.New()

// bindAndValidate binds form input into obj and validates it. Handlers map
// a returned error to their own flash message; no field detail is exposed.
func bindAndValidate(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		return err
	}
	return formValidator.Struct(obj)
}
