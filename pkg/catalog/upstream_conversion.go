// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
	"strings"

	v0 "github.com/modelcontextprotocol/registry/pkg/api/v0"
	"github.com/modelcontextprotocol/registry/pkg/model"
)

// ErrNoInstallablePackage marks upstream servers that cannot be run as a
// local stdio process: remote-only servers and servers whose packages all
// come from unsupported registries.
var ErrNoInstallablePackage = errors.New("server has no installable package")

// ServerJSONToMCPServer converts an upstream registry entry into a
// catalog entry. The first package from a supported registry wins:
// npm runs under npx, pypi under uvx, and oci/docker under docker.
// Environment variable inputs become parameters wired through ${NAME}
// placeholders in the installation env.
func ServerJSONToMCPServer(server *v0.ServerJSON) (*MCPServer, error) {
	pkg, err := installablePackage(server)
	if err != nil {
		return nil, err
	}

	install, err := packageInstallation(pkg)
	if err != nil {
		return nil, err
	}

	result := &MCPServer{
		ID:           server.Name,
		Name:         displayName(server),
		Description:  server.Description,
		Type:         "upstream",
		Version:      server.Version,
		Installation: install,
	}
	if server.Repository != nil {
		result.Repository = server.Repository.URL
	}

	if len(pkg.EnvironmentVariables) > 0 {
		result.Parameters = make(map[string]MCPServerParameter, len(pkg.EnvironmentVariables))
		if install.Env == nil {
			install.Env = make(map[string]string, len(pkg.EnvironmentVariables))
		}
		for _, envVar := range pkg.EnvironmentVariables {
			if envVar.Name == "" {
				continue
			}
			result.Parameters[envVar.Name] = MCPServerParameter{
				Type:        parameterTypeForInput(envVar),
				Required:    envVar.IsRequired,
				Description: envVar.Description,
				Default:     envVar.Default,
			}
			install.Env[envVar.Name] = fmt.Sprintf("${%s}", envVar.Name)
			if envVar.IsSecret {
				result.RequiresAuth = true
			}
		}
	}

	return result, nil
}

// installablePackage picks the first package from a supported registry
// that is not bound to a remote transport.
func installablePackage(server *v0.ServerJSON) (*model.Package, error) {
	for i := range server.Packages {
		pkg := &server.Packages[i]
		if pkg.Transport.Type != "" && pkg.Transport.Type != model.TransportTypeStdio {
			continue
		}
		switch pkg.RegistryType {
		case "npm", "pypi", "oci", "docker":
			return pkg, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoInstallablePackage, server.Name)
}

func packageInstallation(pkg *model.Package) (*Installation, error) {
	var install *Installation

	switch pkg.RegistryType {
	case "npm":
		spec := pkg.Identifier
		if pkg.Version != "" {
			spec = fmt.Sprintf("%s@%s", pkg.Identifier, pkg.Version)
		}
		install = &Installation{Command: "npx", Args: []string{"-y", spec}}
	case "pypi":
		spec := pkg.Identifier
		if pkg.Version != "" {
			spec = fmt.Sprintf("%s==%s", pkg.Identifier, pkg.Version)
		}
		install = &Installation{Command: "uvx", Args: []string{spec}}
	case "oci", "docker":
		// For OCI the Identifier already contains the full image reference
		install = &Installation{Command: "docker", Args: []string{"run", "-i", "--rm", pkg.Identifier}}
	default:
		return nil, fmt.Errorf("%w: unsupported registry type %q", ErrNoInstallablePackage, pkg.RegistryType)
	}

	install.Args = append(install.Args, flattenArguments(pkg.PackageArguments)...)
	return install, nil
}

// flattenArguments converts structured package arguments to plain args.
func flattenArguments(args []model.Argument) []string {
	var result []string
	for _, arg := range args {
		if arg.Name != "" {
			result = append(result, arg.Name)
		}
		if arg.Value != "" {
			result = append(result, arg.Value)
		}
	}
	return result
}

func parameterTypeForInput(input model.KeyValueInput) string {
	if input.IsSecret {
		return ParamTypeAPIKey
	}
	return ParamTypeString
}

// displayName prefers the human-readable title over the reverse-DNS name.
func displayName(server *v0.ServerJSON) string {
	if server.Title != "" {
		return server.Title
	}
	// Reverse-DNS names read better without the namespace prefix.
	if idx := strings.LastIndex(server.Name, "/"); idx >= 0 && idx < len(server.Name)-1 {
		return server.Name[idx+1:]
	}
	return server.Name
}
