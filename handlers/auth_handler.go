package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/nkoroleva/medtest_platform/configs"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/notifications"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=80"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	Specialization  string `json:"specialization" validate:"required"`
	LicenseNumber   string `json:"license_number" validate:"required"`
	Institution     string `json:"institution"`
	Position        string `json:"position"`
	YearsExperience int    `json:"years_experience" validate:"gte=0"`
}

type WorkerResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Specialization string    `json:"specialization"`
	IsModerator    bool      `json:"is_moderator"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func RegisterWorker(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	worker := models.MedicalWorker{
		Email:           req.Email,
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PasswordHash:    string(hashedPassword),
		Specialization:  req.Specialization,
		LicenseNumber:   req.LicenseNumber,
		Institution:     req.Institution,
		Position:        req.Position,
		YearsExperience: req.YearsExperience,
	}

	if err := database.DB.Create(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email, username or license number already registered"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	go notifications.SendEmail(worker.FullName(), worker.Email, "Welcome!",
		"<h1>Welcome!</h1><p>Your account has been created. You can now take knowledge tests.</p>")

	response := WorkerResponse{
		ID:             worker.ID.String(),
		Email:          worker.Email,
		Username:       worker.Username,
		FirstName:      worker.FirstName,
		LastName:       worker.LastName,
		Specialization: worker.Specialization,
		IsModerator:    worker.IsModerator,
		IsAdmin:        worker.IsAdmin,
		CreatedAt:      worker.CreatedAt,
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func LoginWorker(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var worker models.MedicalWorker
	result := database.DB.Where("email = ?", req.Email).First(&worker)
	if result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(req.Password))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id":      worker.ID.String(),
		"is_moderator": worker.IsModerator,
		"is_admin":     worker.IsAdmin,
		"exp":          time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}

// currentWorker resolves the authenticated worker from JWT claims. Identity
// is always threaded explicitly into service calls, never read from ambient
// state inside the services.
func currentWorker(c *fiber.Ctx) (*models.MedicalWorker, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("missing token")
	}
	claims := token.Claims.(jwt.MapClaims)

	rawID, _ := claims["user_id"].(string)
	workerID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}

	var worker models.MedicalWorker
	if err := database.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}
