package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/openlearn/openlearn-backend/internal/logger"
  "github.com/openlearn/openlearn-backend/internal/repos"
  "github.com/openlearn/openlearn-backend/internal/requestdata"
  "github.com/openlearn/openlearn-backend/internal/types"
  "github.com/openlearn/openlearn-backend/internal/utils"
)

type JWTClaims struct {
  Role string `json:"role"`
  jwt.RegisteredClaims
}

type RegisterInput struct {
  Email     string
  Password  string
  FirstName string
  LastName  string
  Role      string
}

type AuthService interface {
  RegisterUser(ctx context.Context, input RegisterInput) (*types.User, error)
  LoginUser(ctx context.Context, email, password string) (string, *types.User, error)
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  SeedAdmin(ctx context.Context) error
  GetAccessTTL() time.Duration
}

type authService struct {
  db           *gorm.DB
  log          *logger.Logger
  userRepo     repos.UserRepo
  jwtSecretKey string
  accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
  return &authService{
    db:           db,
    log:          baseLog.With("service", "AuthService"),
    userRepo:     userRepo,
    jwtSecretKey: jwtSecretKey,
    accessTTL:    accessTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, input RegisterInput) (*types.User, error) {
  email := utils.NormalizeEmail(input.Email)
  if email == "" || !strings.Contains(email, "@") {
    return nil, fmt.Errorf("email: %w", ErrMissingField)
  }
  if len(input.Password) < 8 {
    return nil, fmt.Errorf("password must be at least 8 characters: %w", ErrMissingField)
  }
  role := input.Role
  if role == "" {
    role = types.RoleStudent
  }
  switch role {
  case types.RoleAdmin, types.RoleEditor, types.RoleStudent:
  default:
    return nil, fmt.Errorf("unknown role %q: %w", role, ErrMissingField)
  }

  exists, err := as.userRepo.EmailExists(ctx, nil, email)
  if err != nil {
    return nil, fmt.Errorf("check email: %w", err)
  }
  if exists {
    return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
  }

  hashed, err := utils.HashPassword(input.Password)
  if err != nil {
    return nil, err
  }
  user := &types.User{
    Email:     email,
    Password:  hashed,
    FirstName: strings.TrimSpace(input.FirstName),
    LastName:  strings.TrimSpace(input.LastName),
    Role:      role,
  }
  if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
    as.log.Error("RegisterUser failed", "email", email, "error", err)
    return nil, translateDBError(err)
  }
  return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, *types.User, error) {
  email = utils.NormalizeEmail(email)
  user, err := as.userRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return "", nil, fmt.Errorf("load user: %w", err)
  }
  if user == nil {
    return "", nil, ErrUnauthorized
  }
  if err := utils.CheckPassword(user.Password, password); err != nil {
    return "", nil, ErrUnauthorized
  }
  token, err := as.generateAccessToken(user)
  if err != nil {
    return "", nil, fmt.Errorf("sign token: %w", err)
  }
  return token, user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    Role: user.Role,
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("%w: %v", ErrUnauthorized, err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, ErrUnauthorized
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("%w: invalid subject", ErrUnauthorized)
  }
  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Role:        claims.Role,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

// SeedAdmin creates the bootstrap admin account on first start. It is a
// no-op when ADMIN_EMAIL is unset or the account already exists.
func (as *authService) SeedAdmin(ctx context.Context) error {
  email := utils.NormalizeEmail(utils.GetEnv("ADMIN_EMAIL", "", as.log))
  password := utils.GetEnv("ADMIN_PASSWORD", "", as.log)
  if email == "" || password == "" {
    return nil
  }
  exists, err := as.userRepo.EmailExists(ctx, nil, email)
  if err != nil {
    return fmt.Errorf("check admin email: %w", err)
  }
  if exists {
    return nil
  }
  _, err = as.RegisterUser(ctx, RegisterInput{
    Email:    email,
    Password: password,
    Role:     types.RoleAdmin,
  })
  if err != nil {
    return fmt.Errorf("seed admin: %w", err)
  }
  as.log.Info("Seeded admin user", "email", email)
  return nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
