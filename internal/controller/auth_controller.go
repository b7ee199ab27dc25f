package controller

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/utils/jwt"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PINInput struct {
	PIN string `json:"pin" validate:"required,len=4"`
}

func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, string(user.Role), user.StoreID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.GetPublicProfile(),
	})
}

func GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user.GetPublicProfile())
}

// VerifyPIN checks the cashier's quick-switch PIN at the register.
func VerifyPIN(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(PINInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.PINHash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No PIN configured",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(input.PIN)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Incorrect PIN",
		})
	}

	return c.JSON(fiber.Map{"verified": true})
}

// SetPIN sets or replaces the caller's register PIN.
func SetPIN(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(PINInput)
	if err := c.BodyParser(input); err != nil || len(input.PIN) != 4 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "PIN must be 4 digits",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.PIN), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash PIN",
		})
	}

	if err := database.GetDB().Model(&model.User{}).
		Where("id = ?", claims.UserID).
		Update("pin_hash", string(hash)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save PIN",
		})
	}

	return c.JSON(fiber.Map{"message": "PIN updated"})
}
