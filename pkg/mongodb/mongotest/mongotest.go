//go:build integration

// Package mongotest starts a throwaway MongoDB for integration tests.
package mongotest

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"forum/pkg/mongodb"
)

const (
	Image = "mongo:7"
	port  = "27017/tcp"
)

// Start runs a MongoDB container for the duration of t and returns a database
// with the forum indexes in place. The test is skipped when Docker is missing.
func Start(t *testing.T) *mongo.Database {
	t.Helper()
	skipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        Image,
			ExposedPorts: []string{port},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(port),
				wait.ForLog("Waiting for connections"),
			).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("mongotest: start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("mongotest: terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("mongotest: container host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("mongotest: mapped port: %v", err)
	}

	client, err := mongodb.Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, mapped.Port()))
	if err != nil {
		t.Fatalf("mongotest: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("forum_test")
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("mongotest: %v", err)
	}
	return db
}

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("mongotest: Docker not available")
	}
}
