package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/kcmvp/rawsql/cmd/internal"
	"github.com/kcmvp/rawsql/dao"
	"github.com/kcmvp/rawsql/record"
	"github.com/kcmvp/rawsql/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	demoName  = "Компьюктер"
	demoEmail = "popa@example.com"
)

var (
	stepColor = color.New(color.FgCyan, color.Bold)
	warnColor = color.New(color.FgYellow)
	doneColor = color.New(color.FgGreen)
)

// DemoCmd walks through the DAOs against the configured datasource.
var DemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create, update, read and delete sample records and print each result.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := internal.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		return Run(cmd.Context(), rt.Manager, cmd.OutOrStdout())
	},
}

func show(out io.Writer, step string, v any) error {
	stepColor.Fprintln(out, step)
	bts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(bts))
	return nil
}

// demoUser creates the demo user, or reuses it when an earlier run left it behind.
func demoUser(ctx context.Context, users *dao.UserDAO, out io.Writer) (record.User, error) {
	u, err := users.Insert(ctx, record.NewUserOf(demoName, demoEmail))
	if err == nil || !errors.Is(err, store.ErrIntegrity) {
		return u, err
	}
	warnColor.Fprintf(out, "user %s already exists, reusing it\n", demoEmail)
	all, err := users.GetAll(ctx)
	if err != nil {
		return record.User{}, err
	}
	existing, ok := lo.Find(all, func(u record.User) bool { return u.Email == demoEmail })
	if !ok {
		return record.User{}, fmt.Errorf("user %s is neither insertable nor present", demoEmail)
	}
	return existing, nil
}

// Run creates a user and an order, moves the order date, reads it back,
// pays it, lists the orders and deletes the order again.
func Run(ctx context.Context, m *store.Manager, out io.Writer) error {
	users, err := dao.NewUserDAO(m)
	if err != nil {
		return err
	}
	orders, err := dao.NewOrderDAO(m)
	if err != nil {
		return err
	}
	payments, err := dao.NewPaymentDAO(m)
	if err != nil {
		return err
	}

	u, err := demoUser(ctx, users, out)
	if err != nil {
		return err
	}
	if err := show(out, "user", u); err != nil {
		return err
	}

	o, err := orders.Insert(ctx, record.NewOrder{
		UserID:      u.ID,
		TotalAmount: decimal.NewFromFloat(3.0),
		Status:      record.StatusCreated,
	})
	if err != nil {
		return err
	}
	if err := show(out, "created order", o); err != nil {
		return err
	}

	o, err = orders.Update(ctx, o.ID, record.OrderUpdate{
		OrderDate: mo.Some(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		return err
	}
	if err := show(out, "updated order date", o); err != nil {
		return err
	}

	o, err = orders.Get(ctx, o.ID)
	if err != nil {
		return err
	}
	if err := show(out, "order", o); err != nil {
		return err
	}

	p, err := payments.Insert(ctx, record.NewPayment{UserID: u.ID, OrderID: o.ID, PaymentMethod: record.CreditCard})
	if err != nil {
		return err
	}
	if err := show(out, "payment", p); err != nil {
		return err
	}

	all, err := orders.GetAll(ctx)
	if err != nil {
		return err
	}
	if err := show(out, "all orders", all); err != nil {
		return err
	}

	deleted, err := orders.Delete(ctx, o.ID)
	if err != nil {
		return err
	}
	if err := show(out, "deleted order", deleted); err != nil {
		return err
	}
	left, err := payments.GetByOrder(ctx, deleted.ID)
	if err != nil {
		return err
	}
	doneColor.Fprintf(out, "done, %d payment(s) left for order %d\n", len(left), deleted.ID)
	return nil
}
