package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"gorm.io/gorm"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^[1-9]\d{5}$`)
)

// AddressInput 收货地址输入
type AddressInput struct {
	Label     string
	FullName  string
	Mobile    string
	Street    string
	Area      string
	City      string
	State     string
	Pincode   string
	Country   string
	Latitude  *float64
	Longitude *float64
	IsDefault bool
}

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List 地址列表
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// GetOwned 获取属于该用户的地址，不存在或属于他人时返回 ErrAddressNotFound
func (s *AddressService) GetOwned(userID, addressID uint) (*models.Address, error) {
	if userID == 0 || addressID == 0 {
		return nil, ErrAddressNotFound
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 新增地址，首个地址自动设为默认
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	if err := normalizeAddressInput(&input); err != nil {
		return nil, err
	}
	address := &models.Address{UserID: userID}
	applyAddressInput(address, input)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		count, err := repo.CountByUser(userID)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新地址
func (s *AddressService) Update(userID, addressID uint, input AddressInput) (*models.Address, error) {
	if err := normalizeAddressInput(&input); err != nil {
		return nil, err
	}
	address, err := s.GetOwned(userID, addressID)
	if err != nil {
		return nil, err
	}
	wasDefault := address.IsDefault
	applyAddressInput(address, input)
	// 默认地址只能通过设置其他地址为默认来转移
	address.IsDefault = wasDefault || input.IsDefault

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if address.IsDefault && !wasDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Update(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete 删除地址，删除默认地址时把最近的一个地址提升为默认
func (s *AddressService) Delete(userID, addressID uint) error {
	address, err := s.GetOwned(userID, addressID)
	if err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.Delete(address.ID); err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}
		rest, err := repo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(rest) == 0 {
			return nil
		}
		next := rest[0]
		next.IsDefault = true
		return repo.Update(&next)
	})
}

// SetDefault 设为默认地址，同一用户只保留一个默认地址
func (s *AddressService) SetDefault(userID, addressID uint) (*models.Address, error) {
	address, err := s.GetOwned(userID, addressID)
	if err != nil {
		return nil, err
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if err := repo.ClearDefault(userID); err != nil {
			return err
		}
		address.IsDefault = true
		return repo.Update(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func normalizeAddressInput(input *AddressInput) error {
	input.Label = strings.TrimSpace(input.Label)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Mobile = strings.TrimSpace(input.Mobile)
	input.Street = strings.TrimSpace(input.Street)
	input.Area = strings.TrimSpace(input.Area)
	input.City = strings.TrimSpace(input.City)
	input.State = strings.TrimSpace(input.State)
	input.Pincode = strings.TrimSpace(input.Pincode)
	input.Country = strings.TrimSpace(input.Country)
	if input.Country == "" {
		input.Country = "India"
	}
	if input.Label == "" {
		input.Label = "Home"
	}
	if input.FullName == "" || input.Street == "" || input.City == "" || input.State == "" {
		return ErrAddressInvalid
	}
	mobile, err := NormalizeMobile(input.Mobile)
	if err != nil {
		return fmt.Errorf("%w: mobile", ErrAddressInvalid)
	}
	input.Mobile = mobile
	if !pincodePattern.MatchString(input.Pincode) {
		return fmt.Errorf("%w: pincode", ErrAddressInvalid)
	}
	if input.Latitude != nil && (*input.Latitude < -90 || *input.Latitude > 90) {
		return fmt.Errorf("%w: latitude", ErrAddressInvalid)
	}
	if input.Longitude != nil && (*input.Longitude < -180 || *input.Longitude > 180) {
		return fmt.Errorf("%w: longitude", ErrAddressInvalid)
	}
	return nil
}

func applyAddressInput(address *models.Address, input AddressInput) {
	address.Label = input.Label
	address.FullName = input.FullName
	address.Mobile = input.Mobile
	address.Street = input.Street
	address.Area = input.Area
	address.City = input.City
	address.State = input.State
	address.Pincode = input.Pincode
	address.Country = input.Country
	address.Latitude = input.Latitude
	address.Longitude = input.Longitude
	address.IsDefault = input.IsDefault
}
