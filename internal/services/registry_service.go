package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"menuqr/internal/domain"
	"menuqr/internal/repos"
	"menuqr/internal/storage"
	"menuqr/internal/validate"
)

// RegistryService creates a store plus its owner account atomically.
type RegistryService struct {
	DB        *sqlx.DB
	Users     *repos.UserRepo
	Stores    *repos.StoreRepo
	Countries *repos.CountryRepo
	Files     storage.Uploader

	// OnRegistered runs after commit (welcome mail etc. live elsewhere).
	OnRegistered func(user domain.User, store domain.Store)
}

type RegisterStoreInput struct {
	Name     string
	Email    string
	Password string

	StoreName        string
	StoreEmail       string
	StorePhone       string
	StoreAddress     string
	StoreDescription string
	CountryID        string

	Logo   *storage.File
	Banner *storage.File
}

func (s *RegistryService) validate(in *RegisterStoreInput) error {
	ve := &ValidationError{}

	var ok bool
	if in.Name, ok = validate.Text(in.Name, 255); !ok {
		ve.add("name", "name is required")
	}
	if in.Email, ok = validate.Email(in.Email); !ok {
		ve.add("email", "valid email is required")
	}
	if !validate.Password(in.Password) {
		ve.add("password", "password must be 8-64 chars with upper, lower and digit")
	}
	if in.StoreName, ok = validate.Text(in.StoreName, 255); !ok {
		ve.add("store_name", "store name is required")
	}
	if in.StoreEmail != "" {
		if in.StoreEmail, ok = validate.Email(in.StoreEmail); !ok {
			ve.add("store_email", "invalid store email")
		}
	}
	if in.StorePhone != "" {
		if in.StorePhone, ok = validate.Phone(in.StorePhone); !ok {
			ve.add("store_phone", "invalid phone")
		}
	}
	if in.StoreAddress, ok = validate.OptionalText(in.StoreAddress, 500); !ok {
		ve.add("store_address", "address too long")
	}
	if in.StoreDescription, ok = validate.OptionalText(in.StoreDescription, 2000); !ok {
		ve.add("store_description", "description too long")
	}
	if in.Logo == nil || len(in.Logo.Data) == 0 {
		ve.add("image", "store logo is required")
	} else if !validate.ImageExt(filepath.Ext(in.Logo.Name)) {
		ve.add("image", "logo must be jpeg, png, gif or webp")
	}
	if in.Banner != nil && !validate.ImageExt(filepath.Ext(in.Banner.Name)) {
		ve.add("banner", "banner must be jpeg, png, gif or webp")
	}
	if in.CountryID != "" {
		if _, err := s.Countries.ByID(in.CountryID); err != nil {
			ve.add("country_id", "unknown country")
		}
	}

	// Uniqueness before any persistence
	if _, has := ve.Fields["email"]; !has {
		if exists, err := s.Users.EmailExists(in.Email); err != nil {
			return err
		} else if exists {
			ve.add("email", "email already registered")
		}
	}
	if _, has := ve.Fields["store_name"]; !has {
		if exists, err := s.Stores.NameExists(in.StoreName); err != nil {
			return err
		} else if exists {
			ve.add("store_name", "store name already taken")
		}
	}

	return ve.orNil()
}

// Register validates, uploads the artifacts, then inserts user and store in
// a single transaction. An upload failure fails the whole registration (the
// logo is a mandatory artifact); a store insert failure rolls the user back.
func (s *RegistryService) Register(ctx context.Context, in RegisterStoreInput) (domain.User, domain.Store, error) {
	if err := s.validate(&in); err != nil {
		return domain.User{}, domain.Store{}, err
	}

	logoURL, err := s.Files.Upload(ctx, "stores/logos", uuid.NewString()+filepath.Ext(in.Logo.Name), in.Logo.Data)
	if err != nil {
		return domain.User{}, domain.Store{}, fmt.Errorf("upload logo: %w", err)
	}
	bannerURL := ""
	if in.Banner != nil && len(in.Banner.Data) > 0 {
		bannerURL, err = s.Files.Upload(ctx, "stores/banners", uuid.NewString()+filepath.Ext(in.Banner.Name), in.Banner.Data)
		if err != nil {
			return domain.User{}, domain.Store{}, fmt.Errorf("upload banner: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return domain.User{}, domain.Store{}, err
	}
	user := domain.User{
		ID:    uuid.NewString(),
		Email: in.Email,
		Name:  in.Name,
		Hash:  string(hash),
		Role:  "OWNER",
	}
	store := domain.Store{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        in.StoreName,
		Slug:        validate.Slug(in.StoreName),
		Email:       in.StoreEmail,
		Phone:       in.StorePhone,
		Address:     in.StoreAddress,
		Description: in.StoreDescription,
		Image:       logoURL,
		Banner:      bannerURL,
		CountryID:   in.CountryID,
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.User{}, domain.Store{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Users.CreateTx(tx, user); err != nil {
		return domain.User{}, domain.Store{}, err
	}
	if err := s.Stores.CreateTx(tx, store); err != nil {
		return domain.User{}, domain.Store{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, domain.Store{}, err
	}

	if s.OnRegistered != nil {
		s.OnRegistered(user, store)
	}
	return user, store, nil
}
