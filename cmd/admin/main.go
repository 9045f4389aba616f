package main

import (
	"civiceye/backend/internal/auth"
	"civiceye/backend/internal/complaint"
	"civiceye/backend/internal/config"
	"civiceye/backend/internal/models"
	"civiceye/backend/internal/proof"
	"civiceye/backend/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

const usage = `Usage: admin <command> [args]

Commands:
  create-user <name> <email> [admin]   create a user and print its id
  promote <user_id>                    give a user the admin role
  demote <user_id>                     take the admin role away
  token <user_id>                      print a Bearer token for a user
  status <complaint_id> <status>       move a complaint to Pending|Approved|Rejected|Resolved
  stats                                print the dashboard statistics`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	// Role changes must go through the same user cache the server reads.
	s, closeStore, err := storage.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect store: %v", err)
	}
	defer closeStore()

	svc := complaint.NewService(s, proof.NewStore(cfg.ProofDir, cfg.MaxProofBytes), proof.NewResolver(cfg.PublicHost))

	command := os.Args[1]

	switch command {
	case "create-user":
		if len(os.Args) < 4 || len(os.Args) > 5 {
			fmt.Println("Usage: admin create-user <name> <email> [admin]")
			os.Exit(1)
		}
		role := models.RoleUser
		if len(os.Args) == 5 {
			if os.Args[4] != models.RoleAdmin {
				fmt.Println("The optional role must be \"admin\".")
				os.Exit(1)
			}
			role = models.RoleAdmin
		}
		user, err := createUser(ctx, s, os.Args[2], os.Args[3], role)
		if err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User %s created with role %s.\n", user.ID, user.Role)
	case "promote", "demote":
		if len(os.Args) != 3 {
			fmt.Printf("Usage: admin %s <user_id>\n", command)
			os.Exit(1)
		}
		userID := os.Args[2]
		role := models.RoleAdmin
		if command == "demote" {
			role = models.RoleUser
		}
		if err := setRole(ctx, s, userID, role); err != nil {
			log.Fatalf("Error changing role: %v", err)
		}
		fmt.Printf("User %s now has role %s.\n", userID, role)
	case "token":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin token <user_id>")
			os.Exit(1)
		}
		if cfg.JWTSecret == "" {
			fmt.Println("JWT_SECRET is not set.")
			os.Exit(1)
		}
		token, err := issueToken(ctx, s, auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL), os.Args[2])
		if err != nil {
			log.Fatalf("Error issuing token: %v", err)
		}
		fmt.Println(token)
	case "status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin status <complaint_id> <status>")
			os.Exit(1)
		}
		updated, err := svc.UpdateStatus(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("Error updating status: %v", err)
		}
		fmt.Printf("Complaint %s is now %s.\n", updated.ID, updated.Status)
	case "stats":
		stats, err := svc.Stats(ctx)
		if err != nil {
			log.Fatalf("Error computing stats: %v", err)
		}
		if stats == nil {
			fmt.Println("No complaints found")
			return
		}
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding stats: %v", err)
		}
		fmt.Println(string(out))
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func createUser(ctx context.Context, s storage.Storage, name, email, role string) (*models.User, error) {
	user := &models.User{Name: name, Email: email, Role: role}
	if err := s.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// setRole changes a user's role. s must be the cache-fronted store from
// storage.Connect so the server stops trusting the old role right away.
func setRole(ctx context.Context, s storage.Storage, userID, role string) error {
	user, err := loadUser(ctx, s, userID)
	if err != nil {
		return err
	}
	user.Role = role
	return s.SaveUser(ctx, user)
}

func issueToken(ctx context.Context, s storage.Storage, tokens *auth.Tokens, userID string) (string, error) {
	if _, err := loadUser(ctx, s, userID); err != nil {
		return "", err
	}
	return tokens.Issue(userID)
}

func loadUser(ctx context.Context, s storage.Storage, userID string) (*models.User, error) {
	if !s.ValidID(userID) {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	return user, nil
}
