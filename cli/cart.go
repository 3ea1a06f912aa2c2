package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rocketshoes-cart/cart"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the products in the cart and the total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return s.out.Success(newCartView(s.store.Cart()))
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Long: `Add one unit of a product to the cart.

The product is added only if the catalog reports enough stock for the
new quantity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return runOp(rootOpts, cmd, func(ctx context.Context, st *cart.Store) cart.Outcome {
				return st.AddProduct(ctx, id)
			})
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product and all its units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			return runOp(rootOpts, cmd, func(ctx context.Context, st *cart.Store) cart.Outcome {
				return st.RemoveProduct(ctx, id)
			})
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <amount>",
		Short: "Set the quantity of a product already in the cart",
		Long: `Set the quantity of a product already in the cart.

An amount of zero or less leaves the cart untouched; use remove to drop
a product.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid amount %q", args[1]), err)
			}
			return runOp(rootOpts, cmd, func(ctx context.Context, st *cart.Store) cart.Outcome {
				return st.UpdateProductAmount(ctx, cart.UpdateProductAmount{ProductID: id, Amount: amount})
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every product from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(rootOpts, cmd, func(ctx context.Context, st *cart.Store) cart.Outcome {
				return st.Clear(ctx)
			})
		},
	}
}

func runOp(rootOpts *RootOptions, cmd *cobra.Command, op func(context.Context, *cart.Store) cart.Outcome) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, rootOpts, cmd)
	if err != nil {
		return err
	}
	defer s.close()
	return s.report(op(ctx, s.store))
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid product id %q", arg))
	}
	return id, nil
}
