package services

import (
	"fmt"
	"log"
	"time"

	"bazaar/internal/errs"
	"bazaar/internal/models"
	"bazaar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token validation for the three
// marketplace roles. Tokens carry the actor id and role; everything
// downstream receives the actor explicitly.
type AuthService struct {
	shopkeeperRepo repositories.ShopkeeperRepository
	customerRepo   repositories.CustomerRepository
	partnerRepo    repositories.DeliveryPartnerRepository
	jwtSecret      []byte
	tokenDurat     time.Duration // Duration for which JWT is valid
	adminEmails    map[string]bool
}

// NewAuthService creates a new AuthService. Shopkeeper accounts whose email
// appears in adminEmails are issued admin tokens on login.
func NewAuthService(
	shopkeeperRepo repositories.ShopkeeperRepository,
	customerRepo repositories.CustomerRepository,
	partnerRepo repositories.DeliveryPartnerRepository,
	jwtSecret string,
	adminEmails []string,
) *AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email != "" {
			admins[email] = true
		}
	}
	return &AuthService{
		shopkeeperRepo: shopkeeperRepo,
		customerRepo:   customerRepo,
		partnerRepo:    partnerRepo,
		jwtSecret:      []byte(jwtSecret),
		tokenDurat:     24 * time.Hour, // Token valid for 24 hours
		adminEmails:    admins,
	}
}

// RegisterShopkeeper registers a new shopkeeper with a hashed password.
func (s *AuthService) RegisterShopkeeper(shopkeeper *models.Shopkeeper) error {
	if existing, err := s.shopkeeperRepo.GetByEmail(shopkeeper.Email); err == nil && existing != nil {
		return errs.NewConflictError(fmt.Sprintf("a shop with email '%s' already exists", shopkeeper.Email))
	}
	hashed, err := hashPassword(shopkeeper.Password)
	if err != nil {
		return err
	}
	shopkeeper.Password = hashed
	if err := s.shopkeeperRepo.Create(shopkeeper); err != nil {
		return fmt.Errorf("failed to register shopkeeper: %w", err)
	}
	return nil
}

// RegisterCustomer registers a new customer with a hashed password.
func (s *AuthService) RegisterCustomer(customer *models.Customer) error {
	if existing, err := s.customerRepo.GetByEmail(customer.Email); err == nil && existing != nil {
		return errs.NewConflictError(fmt.Sprintf("an account with email '%s' already exists", customer.Email))
	}
	hashed, err := hashPassword(customer.Password)
	if err != nil {
		return err
	}
	customer.Password = hashed
	if err := s.customerRepo.Create(customer); err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}
	return nil
}

// RegisterDeliveryPartner registers a new delivery partner with a hashed password.
func (s *AuthService) RegisterDeliveryPartner(partner *models.DeliveryPartner) error {
	if existing, err := s.partnerRepo.GetByEmail(partner.Email); err == nil && existing != nil {
		return errs.NewConflictError(fmt.Sprintf("an account with email '%s' already exists", partner.Email))
	}
	hashed, err := hashPassword(partner.Password)
	if err != nil {
		return err
	}
	partner.Password = hashed
	if err := s.partnerRepo.Create(partner); err != nil {
		return fmt.Errorf("failed to register delivery partner: %w", err)
	}
	return nil
}

// Login authenticates an account of the given role and returns a signed JWT.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(role, email, password string) (string, error) {
	var (
		id   string
		hash string
	)
	switch role {
	case models.RoleShopkeeper:
		shopkeeper, err := s.shopkeeperRepo.GetByEmail(email)
		if err != nil {
			return "", fmt.Errorf("invalid credentials")
		}
		id, hash = shopkeeper.ID, shopkeeper.Password
		if s.adminEmails[email] {
			role = models.RoleAdmin
		}
	case models.RoleCustomer:
		customer, err := s.customerRepo.GetByEmail(email)
		if err != nil {
			return "", fmt.Errorf("invalid credentials")
		}
		id, hash = customer.ID, customer.Password
	case models.RoleDelivery:
		partner, err := s.partnerRepo.GetByEmail(email)
		if err != nil {
			return "", fmt.Errorf("invalid credentials")
		}
		id, hash = partner.ID, partner.Password
	default:
		return "", errs.NewValidationError(fmt.Sprintf("unknown role: %s", role))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"actor_id": id,
		"role":     role,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the actor it
// identifies.
func (s *AuthService) ValidateToken(tokenString string) (*models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	id, _ := claims["actor_id"].(string)
	role, _ := claims["role"].(string)
	if id == "" || role == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &models.Actor{ID: id, Role: role}, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
