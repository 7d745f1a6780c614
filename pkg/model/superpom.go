package model

import (
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
	"github.com/jtripath/maven-dependency-management-extension/pkg/repository"
)

// superPOM returns the implicit root of every lineage: the central
// repository and the plugin versions Maven 3.0 pins for every build.
func superPOM() *pom.Model {
	central := pom.Repository{
		ID:        repository.Central.ID,
		Name:      "Central Repository",
		URL:       repository.Central.URL,
		Layout:    repository.LayoutDefault,
		Snapshots: &pom.RepositoryPolicy{Enabled: "false"},
	}
	pluginCentral := central
	pluginCentral.Releases = &pom.RepositoryPolicy{Enabled: "true"}

	return &pom.Model{
		ModelVersion:       "4.0.0",
		Repositories:       []pom.Repository{central},
		PluginRepositories: []pom.Repository{pluginCentral},
		Build: &pom.Build{
			PluginManagement: &pom.PluginManagement{Plugins: []pom.Plugin{
				{GroupID: pom.DefaultPluginGroupID, ArtifactID: "maven-antrun-plugin", Version: "1.3"},
				{GroupID: pom.DefaultPluginGroupID, ArtifactID: "maven-assembly-plugin", Version: "2.2-beta-5"},
				{GroupID: pom.DefaultPluginGroupID, ArtifactID: "maven-dependency-plugin", Version: "2.1"},
				{GroupID: pom.DefaultPluginGroupID, ArtifactID: "maven-release-plugin", Version: "2.0"},
			}},
		},
	}
}
