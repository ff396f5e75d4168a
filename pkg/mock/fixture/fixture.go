package fixture

import (
	"cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"cloud.google.com/go/run/apiv2/runpb"
)

// ServingService returns a platform descriptor in the serving state.
func ServingService(name, url, revision string) *runpb.Service {
	return &runpb.Service{
		Name:                name,
		Uri:                 url,
		LatestReadyRevision: name + "/revisions/" + revision,
		TerminalCondition: &runpb.Condition{
			Type:  "Ready",
			State: runpb.Condition_CONDITION_SUCCEEDED,
		},
	}
}

// FailedService returns a platform descriptor whose terminal condition failed.
func FailedService(name, reason, message string) *runpb.Service {
	return &runpb.Service{
		Name: name,
		TerminalCondition: &runpb.Condition{
			Type:    "Ready",
			State:   runpb.Condition_CONDITION_FAILED,
			Message: message,
			Reasons: &runpb.Condition_Reason{
				Reason: runpb.Condition_CommonReason(runpb.Condition_CommonReason_value[reason]),
			},
		},
	}
}

// SuccessfulBuild returns a finished build for the given image.
func SuccessfulBuild(id, imageUri, logUrl string) *cloudbuildpb.Build {
	return &cloudbuildpb.Build{
		Id:     id,
		Status: cloudbuildpb.Build_SUCCESS,
		Images: []string{imageUri},
		LogUrl: logUrl,
	}
}

// FailedBuild returns a build that terminated without success.
func FailedBuild(id, detail, logUrl string) *cloudbuildpb.Build {
	return &cloudbuildpb.Build{
		Id:           id,
		Status:       cloudbuildpb.Build_FAILURE,
		StatusDetail: detail,
		LogUrl:       logUrl,
	}
}
