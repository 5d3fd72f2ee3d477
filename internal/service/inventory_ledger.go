package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/metrics"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"gorm.io/gorm"
)

// StockLine 库存变动行
type StockLine struct {
	VariantID uint
	Quantity  int
}

// MovementRef 库存流水的来源信息
type MovementRef struct {
	OrderID *uint
	AdminID *uint
	Reason  string
}

// InventoryLedger 库存账本：规格库存只通过这里修改
type InventoryLedger struct {
	variantRepo repository.ProductVariantRepository
}

// NewInventoryLedger 创建库存账本
func NewInventoryLedger(variantRepo repository.ProductVariantRepository) *InventoryLedger {
	return &InventoryLedger{variantRepo: variantRepo}
}

// ReserveDeduct 单规格扣减（独立事务）
func (l *InventoryLedger) ReserveDeduct(variantID uint, quantity int) error {
	var movements []models.StockMovement
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		movements, err = l.DeductLines(tx, []StockLine{{VariantID: variantID, Quantity: quantity}}, MovementRef{})
		return err
	})
	if err != nil {
		return err
	}
	RecordMovementMetrics(movements)
	return nil
}

// Restore 单规格回补（独立事务）
func (l *InventoryLedger) Restore(variantID uint, quantity int) error {
	var movements []models.StockMovement
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		movements, err = l.RestoreLines(tx, []StockLine{{VariantID: variantID, Quantity: quantity}}, MovementRef{})
		return err
	})
	if err != nil {
		return err
	}
	RecordMovementMetrics(movements)
	return nil
}

// DeductLines 在调用方事务内扣减多行库存。
// 全部行先按规格 ID 升序加锁并校验，任一行不足时不做任何修改并返回 InsufficientStockError。
func (l *InventoryLedger) DeductLines(tx *gorm.DB, lines []StockLine, ref MovementRef) ([]models.StockMovement, error) {
	merged, ids, err := mergeStockLines(lines)
	if err != nil {
		return nil, err
	}
	repo := l.variantRepo.WithTx(tx)
	locked, err := repo.LockByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
	}
	byID := indexVariants(locked)

	for _, id := range ids {
		variant, ok := byID[id]
		if !ok {
			return nil, ErrVariantNotFound
		}
		if variant.Stock < merged[id] {
			return nil, &InsufficientStockError{
				VariantID: id,
				Label:     variantDisplayLabel(variant),
				Requested: merged[id],
				Available: variant.Stock,
			}
		}
	}

	movements := make([]models.StockMovement, 0, len(ids))
	for _, id := range ids {
		variant := byID[id]
		qty := merged[id]
		affected, err := repo.DecrementStock(id, qty)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
		}
		if affected == 0 {
			return nil, &InsufficientStockError{
				VariantID: id,
				Label:     variantDisplayLabel(variant),
				Requested: qty,
				Available: variant.Stock,
			}
		}
		movements = append(movements, buildMovement(id, constants.StockMovementDeduct, -qty, variant.Stock-qty, ref))
	}
	if err := repo.CreateMovements(movements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
	}
	return movements, nil
}

// RestoreLines 在调用方事务内回补多行库存
func (l *InventoryLedger) RestoreLines(tx *gorm.DB, lines []StockLine, ref MovementRef) ([]models.StockMovement, error) {
	merged, ids, err := mergeStockLines(lines)
	if err != nil {
		return nil, err
	}
	repo := l.variantRepo.WithTx(tx)
	locked, err := repo.LockByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
	}
	byID := indexVariants(locked)

	movements := make([]models.StockMovement, 0, len(ids))
	for _, id := range ids {
		variant, ok := byID[id]
		if !ok {
			return nil, ErrVariantNotFound
		}
		qty := merged[id]
		if _, err := repo.IncrementStock(id, qty); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
		}
		movements = append(movements, buildMovement(id, constants.StockMovementRestore, qty, variant.Stock+qty, ref))
	}
	if err := repo.CreateMovements(movements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
	}
	return movements, nil
}

// Adjust 管理端库存调整，调整后库存不得为负
func (l *InventoryLedger) Adjust(variantID uint, delta int, ref MovementRef) (*models.ProductVariant, error) {
	if variantID == 0 || delta == 0 {
		return nil, ErrStockAdjustInvalid
	}
	var (
		movement models.StockMovement
		result   models.ProductVariant
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := l.variantRepo.WithTx(tx)
		locked, err := repo.LockByIDs([]uint{variantID})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
		}
		if len(locked) == 0 || locked[0].DeletedAt.Valid {
			return ErrVariantNotFound
		}
		variant := locked[0]
		after := variant.Stock + delta
		if after < 0 {
			return &InsufficientStockError{
				VariantID: variant.ID,
				Label:     variantDisplayLabel(variant),
				Requested: -delta,
				Available: variant.Stock,
			}
		}
		if delta > 0 {
			_, err = repo.IncrementStock(variantID, delta)
		} else {
			var affected int64
			affected, err = repo.DecrementStock(variantID, -delta)
			if err == nil && affected == 0 {
				return &InsufficientStockError{VariantID: variant.ID, Label: variantDisplayLabel(variant), Requested: -delta, Available: variant.Stock}
			}
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
		}
		movement = buildMovement(variantID, constants.StockMovementAdjust, delta, after, ref)
		if err := repo.CreateMovements([]models.StockMovement{movement}); err != nil {
			return fmt.Errorf("%w: %v", ErrStockUpdateFailed, err)
		}
		variant.Stock = after
		result = variant
		return nil
	})
	if err != nil {
		return nil, err
	}
	RecordMovementMetrics([]models.StockMovement{movement})
	return &result, nil
}

// ListMovements 查询库存流水
func (l *InventoryLedger) ListMovements(filter repository.StockMovementFilter) ([]models.StockMovement, int64, error) {
	return l.variantRepo.ListMovements(filter)
}

// RecordMovementMetrics 事务提交后记录库存指标
func RecordMovementMetrics(movements []models.StockMovement) {
	for _, m := range movements {
		metrics.StockMovement(m.Kind, m.Delta)
	}
}

func mergeStockLines(lines []StockLine) (map[uint]int, []uint, error) {
	if len(lines) == 0 {
		return nil, nil, errors.New("no stock lines")
	}
	merged := make(map[uint]int, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.VariantID == 0 || line.Quantity <= 0 {
			return nil, nil, ErrInvalidQuantity
		}
		if _, ok := merged[line.VariantID]; !ok {
			ids = append(ids, line.VariantID)
		}
		merged[line.VariantID] += line.Quantity
	}
	sortUintIDs(ids)
	return merged, ids, nil
}

func indexVariants(variants []models.ProductVariant) map[uint]models.ProductVariant {
	byID := make(map[uint]models.ProductVariant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}
	return byID
}

func buildMovement(variantID uint, kind string, delta, after int, ref MovementRef) models.StockMovement {
	return models.StockMovement{
		VariantID:  variantID,
		OrderID:    ref.OrderID,
		AdminID:    ref.AdminID,
		Kind:       kind,
		Delta:      delta,
		StockAfter: after,
		Reason:     ref.Reason,
	}
}

func variantDisplayLabel(variant models.ProductVariant) string {
	name := variant.ProductName()
	if name == "" {
		return variant.Label
	}
	return name + " " + variant.Label
}

func sortUintIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
