package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kakomon/kakomon-backend/internal/importer"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/kakomon/kakomon-backend/internal/repository"
	"github.com/kakomon/kakomon-backend/internal/service"
	"github.com/urfave/cli/v3"
)

func newImportCommand(d *deps) *cli.Command {
	return &cli.Command{
		Name:        "import",
		Usage:       "Import past-exam questions from a JSON file",
		Description: "The file is a JSON array of question rows (year_id, question_number, category, question_text, choice1..choice9, correct_choice, explanation). Existing questions with the same year and number are replaced.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "The JSON file to import.",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := os.Open(c.String("file"))
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			rows, err := importer.Decode(f)
			if err != nil {
				return err
			}

			im, err := d.importer(ctx)
			if err != nil {
				return err
			}

			sum, err := im.Import(ctx, rows)
			if err != nil {
				return err
			}

			fmt.Printf("✅ Imported %d questions across %d years\n", sum.Questions, len(sum.Years))
			for _, y := range sum.Years {
				fmt.Printf("  - %d (%s)\n", y, quiz.FormatYearLabel(y))
			}
			return nil
		},
	}
}

func newSetImagesCommand(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "set-images",
		Usage: "Attach a figure to the image-based questions of a year",
		Description: fmt.Sprintf(
			"Clears the year's image references, then sets the file on questions %d to %d. The file must already be in IMAGE_DIR.",
			quiz.ImageFrom, quiz.ImageTo,
		),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "year",
				Usage:    "The exam year id, e.g. 201601.",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "image",
				Usage:    "The image file name under IMAGE_DIR.",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			im, err := d.importer(ctx)
			if err != nil {
				return err
			}

			n, err := im.SetYearImage(ctx, c.Int("year"), c.String("image"))
			if err != nil {
				return err
			}

			fmt.Printf("✅ %s now shows the figure on %d questions\n", quiz.FormatYearLabel(c.Int("year")), n)
			return nil
		},
	}
}

func newYearsCommand(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "years",
		Usage: "List stored exam years and their question counts",
		Action: func(ctx context.Context, c *cli.Command) error {
			pool, err := d.pool(ctx)
			if err != nil {
				return err
			}

			years, err := repository.NewQuestionRepository(pool).ListYears(ctx)
			if err != nil {
				return err
			}
			if len(years) == 0 {
				fmt.Println("No questions stored yet.")
				return nil
			}

			for _, y := range years {
				mark := "✅"
				if y.QuestionCount < quiz.MaxQuestionNumber {
					mark = "⚠️"
				}
				fmt.Printf("%s %d %s: %d questions\n", mark, y.YearID, quiz.FormatYearLabel(y.YearID), y.QuestionCount)
			}
			return nil
		},
	}
}

func newTokenCommand(d *deps) *cli.Command {
	return &cli.Command{
		Name:        "token",
		Usage:       "Sign an access token for a user",
		Description: "Prints a bearer token signed with JWT_SECRET and valid for JWT_EXPIRY_HOURS. Meant for local development against the quiz API.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "user",
				Usage:    "The user id to sign for.",
				Required: true,
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			userID := c.Int("user")
			if userID <= 0 {
				return fmt.Errorf("user id must be positive, got %d", userID)
			}

			token, err := service.NewAuthService(d.cfg).GenerateToken(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.Root().Writer, token)
			return nil
		},
	}
}

func newRootCommand(subcommands ...*cli.Command) *cli.Command {
	return &cli.Command{
		Name:     "quizctl",
		Usage:    "A CLI tool for managing the past-exam question bank.",
		Commands: subcommands,
	}
}
