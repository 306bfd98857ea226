package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputYAML = "yaml"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.shop.SearchProducts(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show product details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.shop.Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderProductDetail(cmd.OutOrStdout(), product)
			return nil
		},
	}
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, show and place orders",
	}
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "Output format (text, yaml)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.shop.Orders(cmd.Context())
			if err != nil {
				return err
			}
			if a.output == outputYAML {
				return writeYAML(cmd.OutOrStdout(), orders)
			}
			renderOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.shop.Order(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.output == outputYAML {
				return writeYAML(cmd.OutOrStdout(), order)
			}
			renderOrderDetail(cmd.OutOrStdout(), order)
			return nil
		},
	}

	var (
		items   []string
		address string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Example: `  shopper orders create --item p1:2 --item p7
  shopper orders create --item p1 --address "1 Main St"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := domain.OrderCreate{ShippingAddress: address}
			for _, raw := range items {
				item, err := parseOrderItem(raw)
				if err != nil {
					return err
				}
				input.Items = append(input.Items, item)
			}

			order, err := a.shop.CreateOrder(cmd.Context(), input)
			if err != nil {
				return err
			}
			if a.output == outputYAML {
				return writeYAML(cmd.OutOrStdout(), order)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Order placed.")
			renderOrderDetail(cmd.OutOrStdout(), order)
			return nil
		},
	}
	create.Flags().StringArrayVar(&items, "item", nil, "Product to order as id[:quantity], repeatable")
	create.Flags().StringVar(&address, "address", "", "Shipping address")

	cmd.AddCommand(list, show, create)
	return cmd
}

// parseOrderItem reads "id" or "id:quantity"
func parseOrderItem(raw string) (domain.OrderItem, error) {
	id, qty, found := strings.Cut(strings.TrimSpace(raw), ":")
	item := domain.OrderItem{ProductID: id, Quantity: 1}
	if !found {
		return item, nil
	}

	n, err := strconv.Atoi(qty)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("invalid quantity in %q", raw)
	}
	item.Quantity = n
	return item, nil
}

func newPayCmd(a *app) *cobra.Command {
	var input domain.PaymentIntentCreate

	cmd := &cobra.Command{
		Use:   "pay <order-id>",
		Short: "Create a payment for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.OrderID = args[0]

			intent, err := a.shop.Pay(cmd.Context(), input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Payment created"))
			fmt.Fprintf(out, "  Intent:        %s\n", idStyle.Render(intent.PaymentIntentID))
			fmt.Fprintf(out, "  Client secret: %s\n", intent.ClientSecret)
			if intent.Amount > 0 {
				fmt.Fprintf(out, "  Amount:        %s %s\n", formatPrice(intent.Amount), strings.ToUpper(intent.Currency))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&input.Amount, "amount", 0, "Amount to charge (defaults to the order total)")
	cmd.Flags().StringVar(&input.Currency, "currency", "", "Three-letter currency code")
	return cmd
}
