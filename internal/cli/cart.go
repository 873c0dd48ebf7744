package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/messages"
)

// errUnknownCoupon is returned for a well-formed coupon that grants nothing.
var errUnknownCoupon = fmt.Errorf("%w: cupón no válido", messages.ErrInvalidFields)

func newCartCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Price a cart",
	}
	cmd.AddCommand(newQuoteCmd(e))
	return cmd
}

func newQuoteCmd(e *env) *cobra.Command {
	var (
		items    []string
		discount string
		coupon   string
	)

	cmd := &cobra.Command{
		Use:     "quote",
		Short:   "Build a cart from --item flags and print its totals",
		Example: `  storefront cart quote --item cat-1:Catan:29990:2 --item dix:Dixit:24990 --coupon DESCUENTO10`,
		Args:    inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cart := e.App().Cart

			for _, raw := range items {
				it, err := parseItem(raw)
				if err != nil {
					return err
				}
				cart.AddItem(it)
			}

			if discount != "" {
				pct, err := decimal.NewFromString(discount)
				if err != nil {
					return fmt.Errorf("%w: discount %q is not a number", messages.ErrInvalidFields, discount)
				}
				cart.ApplyDiscount(pct)
			}
			if coupon != "" {
				if err := e.forms.Validate(&couponForm{Code: strings.TrimSpace(coupon)}); err != nil {
					return err
				}
				pct, ok := domain.CouponDiscount(coupon)
				if !ok {
					return errUnknownCoupon
				}
				cart.ApplyDiscount(pct)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "ID\tPRODUCTO\tCANT.\tPRECIO\tTOTAL\t")
			for _, it := range cart.Items() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n", it.ID, it.Name, it.Quantity, money(it.UnitPrice), money(it.LineTotal()))
			}
			fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\t\n", money(cart.Subtotal()))
			fmt.Fprintf(tw, "\t\t\tEnvío\t%s\t\n", money(cart.ShippingCost()))
			fmt.Fprintf(tw, "\t\t\tTotal\t%s\t\n", money(cart.GrandTotal()))
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&items, "item", nil, "line item as id:name:price[:quantity], repeatable")
	f.StringVar(&discount, "discount", "", "discount percentage")
	f.StringVar(&coupon, "coupon", "", "coupon code")
	return cmd
}

// parseItem reads id:name:price[:quantity]. Quantity defaults to 1.
func parseItem(raw string) (domain.CartItem, error) {
	bad := func(reason string) (domain.CartItem, error) {
		return domain.CartItem{}, fmt.Errorf("%w: item %q: %s", messages.ErrInvalidFields, raw, reason)
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return bad("expected id:name:price[:quantity]")
	}
	id, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if id == "" {
		return bad("id is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil || price.IsNegative() {
		return bad("price must be a non-negative number")
	}

	qty := 1
	if len(parts) == 4 {
		qty, err = strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil || qty < 1 {
			return bad("quantity must be a positive integer")
		}
	}

	return domain.CartItem{ID: id, Name: name, UnitPrice: price, Quantity: qty}, nil
}

// money formats an amount in whole pesos, e.g. $21.990.
func money(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
