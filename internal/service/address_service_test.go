package service

import (
	"errors"
	"testing"
)

func TestAddressDefaultHandling(t *testing.T) {
	f := setupOrderFixture(t)
	home := f.seedAddress(t, 1)
	if !home.IsDefault || home.Country != "India" || home.Label != "Home" {
		t.Fatalf("first address must be default with defaults applied, got %+v", home)
	}

	work, err := f.addresses.Create(1, AddressInput{
		Label:    "Work",
		FullName: "Asha Rao",
		Mobile:   "+91 98765 43210",
		Street:   "Outer Ring Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560103",
	})
	if err != nil {
		t.Fatalf("create second address failed: %v", err)
	}
	if work.IsDefault {
		t.Fatalf("second address must not become default implicitly")
	}

	if _, err := f.addresses.SetDefault(1, work.ID); err != nil {
		t.Fatalf("set default failed: %v", err)
	}
	list, err := f.addresses.List(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			if a.ID != work.ID {
				t.Fatalf("expected work address as default, got %d", a.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}

	if err := f.addresses.Delete(1, work.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	remaining, err := f.addresses.GetOwned(1, home.ID)
	if err != nil {
		t.Fatalf("get remaining failed: %v", err)
	}
	if !remaining.IsDefault {
		t.Fatalf("remaining address must be promoted to default")
	}
}

func TestAddressOwnershipAndValidation(t *testing.T) {
	f := setupOrderFixture(t)
	address := f.seedAddress(t, 1)

	if _, err := f.addresses.GetOwned(2, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound for foreign address, got %v", err)
	}
	if err := f.addresses.Delete(2, address.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound on foreign delete, got %v", err)
	}
	_, err := f.addresses.Create(1, AddressInput{
		FullName: "Ravi",
		Mobile:   "12345",
		Street:   "1 Park Street",
		City:     "Kolkata",
		State:    "West Bengal",
		Pincode:  "700016",
	})
	if !errors.Is(err, ErrAddressInvalid) {
		t.Fatalf("expected ErrAddressInvalid for bad mobile, got %v", err)
	}
	_, err = f.addresses.Create(1, AddressInput{
		FullName: "Ravi",
		Mobile:   "9123456780",
		Street:   "1 Park Street",
		City:     "Kolkata",
		State:    "West Bengal",
		Pincode:  "070016",
	})
	if !errors.Is(err, ErrAddressInvalid) {
		t.Fatalf("expected ErrAddressInvalid for bad pincode, got %v", err)
	}
}
