package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"compustore-be/internal/discount"
	"compustore-be/internal/inventory"
	"compustore-be/internal/logger"
	"compustore-be/internal/product"

	"go.uber.org/zap"
)

type Repository interface {
	PlaceOrder(
		ctx context.Context,
		customerID uint,
		lines []CartLine,
		method string,
		externalReference *string,
		rules []discount.Rule,
	) (*Order, error)

	List(
		ctx context.Context,
		filter *Filter,
		sortField, sortDir string,
		limit, page int,
	) ([]*Order, error)

	GetDetail(ctx context.Context, orderID int64) (*Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Order, error)

	MarkCompleted(ctx context.Context, orderID int64) error
	Cancel(ctx context.Context, orderID int64, allowCompleted bool) (*Order, error)

	CancelLines(
		ctx context.Context,
		orderID int64,
		cancels map[int64]int,
		recomputeVolume bool,
		rules []discount.Rule,
	) (*CancelLinesResult, error)

	SetApproval(ctx context.Context, orderID int64, status ApprovalStatus, staffID uint) error
	ListPendingQR(ctx context.Context, olderThan time.Time) ([]*Order, error)
}

type repository struct {
	db     *sql.DB
	ledger inventory.Ledger
}

func NewRepository(db *sql.DB, ledger inventory.Ledger) Repository {
	return &repository{db: db, ledger: ledger}
}

// lockedProduct is the snapshot read under FOR UPDATE during placement.
type lockedProduct struct {
	ID          int64
	Name        string
	Description string
	Category    string
	UnitPrice   float64
	CostBasis   *float64
	Stock       int
	Archived    bool
	Deleted     bool
}

func (r *repository) lockProduct(ctx context.Context, tx *sql.Tx, productID int64) (*lockedProduct, error) {
	var p lockedProduct
	var deletedAt sql.NullTime
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, description, category, unit_price, cost_basis,
		       stock_on_hand, archived, deleted_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.UnitPrice,
		&p.CostBasis, &p.Stock, &p.Archived, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Deleted = deletedAt.Valid
	return &p, nil
}

func (r *repository) PlaceOrder(
	ctx context.Context,
	customerID uint,
	lines []CartLine,
	method string,
	externalReference *string,
	rules []discount.Rule,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("customer_id", customerID),
		zap.Int("line_count", len(lines)),
	)

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Lock every product row and snapshot pricing. The locks hold
	//    until commit so the stock check and the reservation see the
	//    same state.
	inputs := make([]discount.LineInput, 0, len(lines))
	snapshots := make([]*lockedProduct, 0, len(lines))
	for _, l := range lines {
		p, err := r.lockProduct(ctx, tx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Archived || p.Deleted {
			return nil, &product.UnavailableError{ProductID: p.ID}
		}
		if p.Stock < l.Quantity {
			return nil, &inventory.InsufficientStockError{
				ProductID: p.ID,
				Available: p.Stock,
				Requested: l.Quantity,
			}
		}
		snapshots = append(snapshots, p)
		inputs = append(inputs, discount.LineInput{
			ProductID: p.ID,
			Quantity:  l.Quantity,
			UnitPrice: p.UnitPrice,
			CostBasis: p.CostBasis,
		})
	}

	quote := discount.Evaluate(inputs, rules)

	// 2. Insert order with a placeholder total, then lines, then write
	//    the evaluated total back.
	o := &Order{
		CustomerID:        customerID,
		PaymentStatus:     StatusPending,
		ApprovalStatus:    ApprovalPending,
		PaymentMethod:     method,
		ExternalReference: externalReference,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_id, payment_status, approval_status,
			payment_method, external_reference, total_amount
		) VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id, created_at, updated_at
	`,
		customerID, o.PaymentStatus, o.ApprovalStatus,
		method, externalReference,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	for i, lq := range quote.Lines {
		p := snapshots[i]
		line := Line{
			OrderID:            o.ID,
			Quantity:           lq.Quantity,
			EffectiveUnitPrice: lq.EffectiveUnitPrice,
			CostBasisSnapshot:  lq.CostBasis,
			DiscountPct:        lq.DiscountPct,
			DiscountAmount:     lq.DiscountAmount,
			ProductName:        p.Name,
			ProductDescription: p.Description,
			ProductCategory:    p.Category,
		}
		pid := p.ID
		line.ProductID = &pid

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_lines (
				order_id, product_id, quantity,
				effective_unit_price, cost_basis_snapshot,
				discount_percentage, discount_amount,
				product_name, product_description, product_category
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id
		`,
			line.OrderID, line.ProductID, line.Quantity,
			line.EffectiveUnitPrice, line.CostBasisSnapshot,
			line.DiscountPct, line.DiscountAmount,
			line.ProductName, line.ProductDescription, line.ProductCategory,
		).Scan(&line.ID)
		if err != nil {
			log.Error("failed to insert order line", zap.Error(err))
			return nil, err
		}

		// 3. Reserve stock on the same transaction.
		if err := r.ledger.Reserve(ctx, tx, p.ID, lq.Quantity); err != nil {
			return nil, err
		}

		o.Lines = append(o.Lines, line)
	}

	// 4. Write the evaluated totals back.
	o.TotalAmount = quote.Total
	o.VolumeDiscountRuleID = quote.RuleID
	o.VolumeDiscountPct = quote.VolumePct
	o.VolumeDiscountAmount = quote.VolumeAmount

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET total_amount = $1,
		    volume_discount_rule_id = $2,
		    volume_discount_percentage = $3,
		    volume_discount_amount = $4,
		    updated_at = NOW()
		WHERE id = $5
	`,
		o.TotalAmount, o.VolumeDiscountRuleID,
		o.VolumeDiscountPct, o.VolumeDiscountAmount, o.ID,
	)
	if err != nil {
		log.Error("failed to write order total", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Float64("total", o.TotalAmount),
	)

	return o, nil
}

func (r *repository) List(
	ctx context.Context,
	filter *Filter,
	sortField, sortDir string,
	limit, page int,
) ([]*Order, error) {

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Int("limit", limit),
		zap.Int("page", page),
	)

	query := `
		SELECT
			o.id, o.customer_id, o.payment_status, o.approval_status,
			o.payment_method, o.external_reference, o.total_amount,
			o.volume_discount_rule_id, o.volume_discount_percentage,
			o.volume_discount_amount, o.payment_session_id,
			o.approved_at, o.approved_by, o.created_at, o.updated_at
		FROM orders o
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.payment_status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}
		if filter.Approval != nil && *filter.Approval != "" {
			query += fmt.Sprintf(" AND o.approval_status = $%d", argIndex)
			args = append(args, *filter.Approval)
			argIndex++
		}
		if filter.Search != nil && *filter.Search != "" {
			query += fmt.Sprintf(
				" AND (o.id::text ILIKE $%d OR o.external_reference ILIKE $%d)",
				argIndex, argIndex,
			)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}
		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}
		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	orderBy := "o.created_at DESC"
	dir := strings.ToUpper(sortDir)
	if dir != "ASC" && dir != "DESC" {
		dir = "DESC"
	}
	switch sortField {
	case "total":
		orderBy = "o.total_amount " + dir
	case "created_at":
		orderBy = "o.created_at " + dir
	}
	query += " ORDER BY " + orderBy

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("orders listed", zap.Int("count", len(orders)))
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.PaymentStatus, &o.ApprovalStatus,
		&o.PaymentMethod, &o.ExternalReference, &o.TotalAmount,
		&o.VolumeDiscountRuleID, &o.VolumeDiscountPct,
		&o.VolumeDiscountAmount, &o.PaymentSessionID,
		&o.ApprovedAt, &o.ApprovedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const orderColumns = `
	o.id, o.customer_id, o.payment_status, o.approval_status,
	o.payment_method, o.external_reference, o.total_amount,
	o.volume_discount_rule_id, o.volume_discount_percentage,
	o.volume_discount_amount, o.payment_session_id,
	o.approved_at, o.approved_by, o.created_at, o.updated_at
`

func (r *repository) GetDetail(ctx context.Context, orderID int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.id = $1
	`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity,
		       effective_unit_price, cost_basis_snapshot,
		       discount_percentage, discount_amount,
		       product_name, product_description, product_category
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.Quantity,
			&l.EffectiveUnitPrice, &l.CostBasisSnapshot,
			&l.DiscountPct, &l.DiscountAmount,
			&l.ProductName, &l.ProductDescription, &l.ProductCategory,
		); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}

	return o, rows.Err()
}

func (r *repository) GetBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.payment_session_id = $1
	`, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// MarkCompleted flips PENDING to COMPLETED. Stock was already reserved at
// placement, so completion touches nothing but the status.
func (r *repository) MarkCompleted(ctx context.Context, orderID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := r.lockStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if status != StatusPending {
		return &IllegalTransitionError{From: status, To: StatusCompleted}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2
	`, StatusCompleted, orderID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) lockStatus(ctx context.Context, tx *sql.Tx, orderID int64) (PaymentStatus, error) {
	var status PaymentStatus
	err := tx.QueryRowContext(ctx, `
		SELECT payment_status FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return status, err
}

// Cancel restores stock for every line and marks the order CANCELLED.
// The pending-only entry point rejects completed orders; staff
// post-completion cancellation passes allowCompleted.
func (r *repository) Cancel(ctx context.Context, orderID int64, allowCompleted bool) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Cancel"),
		zap.Int64("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, err := r.lockStatus(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	switch status {
	case StatusPending:
	case StatusCompleted:
		if !allowCompleted {
			return nil, &IllegalTransitionError{From: status, To: StatusCancelled}
		}
	default:
		return nil, &IllegalTransitionError{From: status, To: StatusCancelled}
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_lines WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}

	type restoreItem struct {
		productID *int64
		qty       int
	}
	var restores []restoreItem
	for rows.Next() {
		var it restoreItem
		if err := rows.Scan(&it.productID, &it.qty); err != nil {
			rows.Close()
			return nil, err
		}
		restores = append(restores, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Lines whose product was hard-removed keep a null product_id and
	// have no stock to restore.
	for _, it := range restores {
		if it.productID == nil {
			continue
		}
		if err := r.ledger.Restore(ctx, tx, *it.productID, it.qty); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2
	`, StatusCancelled, orderID); err != nil {
		return nil, err
	}

	var o *Order
	o, err = scanOrder(tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders o WHERE o.id = $1
	`, orderID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order cancelled", zap.String("previous_status", string(status)))
	return o, nil
}

func (r *repository) CancelLines(
	ctx context.Context,
	orderID int64,
	cancels map[int64]int,
	recomputeVolume bool,
	rules []discount.Rule,
) (*CancelLinesResult, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CancelLines"),
		zap.Int64("order_id", orderID),
	)

	if len(cancels) == 0 {
		return nil, ErrNothingToCancel
	}
	for _, qty := range cancels {
		if qty < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	status, err := r.lockStatus(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if status == StatusCancelled {
		return nil, &IllegalTransitionError{From: status, To: StatusCancelled}
	}

	result := &CancelLinesResult{}
	reduction := 0.0

	for lineID, qty := range cancels {
		var (
			productID *int64
			lineQty   int
			unitPrice float64
			name      string
		)
		err := tx.QueryRowContext(ctx, `
			SELECT product_id, quantity, effective_unit_price, product_name
			FROM order_lines
			WHERE id = $1 AND order_id = $2
			FOR UPDATE
		`, lineID, orderID).Scan(&productID, &lineQty, &unitPrice, &name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLineNotFound
		}
		if err != nil {
			return nil, err
		}

		if qty > lineQty {
			return nil, fmt.Errorf("%w: cancel %d exceeds line quantity %d",
				ErrInvalidQuantity, qty, lineQty)
		}

		if productID != nil {
			if err := r.ledger.Restore(ctx, tx, *productID, qty); err != nil {
				return nil, err
			}
		}

		if qty == lineQty {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM order_lines WHERE id = $1
			`, lineID); err != nil {
				return nil, err
			}
		} else {
			if _, err := tx.ExecContext(ctx, `
				UPDATE order_lines SET quantity = quantity - $1 WHERE id = $2
			`, qty, lineID); err != nil {
				return nil, err
			}
		}

		reduction += float64(qty) * unitPrice
		result.Items = append(result.Items, CancelledItem{
			LineID:      lineID,
			ProductName: name,
			Quantity:    qty,
		})
	}

	var remaining int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM order_lines WHERE order_id = $1
	`, orderID).Scan(&remaining); err != nil {
		return nil, err
	}

	if remaining == 0 {
		// Payment sessions keep their row with a cleared order link.
		if _, err := tx.ExecContext(ctx, `
			UPDATE payment_sessions SET order_id = NULL WHERE order_id = $1
		`, orderID); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM orders WHERE id = $1
		`, orderID); err != nil {
			return nil, err
		}
		result.OrderDeleted = true
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		log.Info("order fully cancelled line by line, order deleted")
		return result, nil
	}

	if recomputeVolume {
		newTotal, err := r.recomputeTotals(ctx, tx, orderID, rules)
		if err != nil {
			return nil, err
		}
		result.NewTotal = newTotal
	} else {
		err := tx.QueryRowContext(ctx, `
			UPDATE orders
			SET total_amount = total_amount - $1, updated_at = NOW()
			WHERE id = $2
			RETURNING total_amount
		`, reduction, orderID).Scan(&result.NewTotal)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order lines cancelled",
		zap.Int("cancelled", len(result.Items)),
		zap.Float64("new_total", result.NewTotal),
	)
	return result, nil
}

// recomputeTotals re-runs the volume tier selection against the surviving
// lines and rewrites the order's totals from scratch.
func (r *repository) recomputeTotals(ctx context.Context, tx *sql.Tx, orderID int64, rules []discount.Rule) (float64, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT quantity, effective_unit_price, cost_basis_snapshot
		FROM order_lines
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var inputs []discount.LineInput
	for rows.Next() {
		var (
			qty   int
			price float64
			cost  float64
		)
		if err := rows.Scan(&qty, &price, &cost); err != nil {
			return 0, err
		}
		inputs = append(inputs, discount.LineInput{
			Quantity:  qty,
			UnitPrice: price,
			CostBasis: &cost,
		})
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	quote := discount.Evaluate(inputs, rules)

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET total_amount = $1,
		    volume_discount_rule_id = $2,
		    volume_discount_percentage = $3,
		    volume_discount_amount = $4,
		    updated_at = NOW()
		WHERE id = $5
	`, quote.Total, quote.RuleID, quote.VolumePct, quote.VolumeAmount, orderID)
	if err != nil {
		return 0, err
	}
	return quote.Total, nil
}

func (r *repository) SetApproval(ctx context.Context, orderID int64, status ApprovalStatus, staffID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET approval_status = $1, approved_at = NOW(), approved_by = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, status, staffID, orderID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListPendingQR feeds the background verifier: pending QR orders past the
// grace period, oldest first.
func (r *repository) ListPendingQR(ctx context.Context, olderThan time.Time) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.payment_status = $1
		  AND o.payment_method = $2
		  AND o.created_at < $3
		ORDER BY o.created_at
	`, StatusPending, MethodQR, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
