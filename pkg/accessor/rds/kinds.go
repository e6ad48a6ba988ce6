/*
SPDX-License-Identifier: Apache-2.0

Copyright Contributors to the Submariner project.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rds

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/pkg/errors"
	"github.com/submariner-io/rds-e2e/pkg/accessor"
)

const (
	DBInstance              = "DBInstance"
	DBCluster               = "DBCluster"
	DBParameterGroup        = "DBParameterGroup"
	DBClusterParameterGroup = "DBClusterParameterGroup"
	DBSubnetGroup           = "DBSubnetGroup"
	DBSnapshot              = "DBSnapshot"
	DBClusterSnapshot       = "DBClusterSnapshot"
	DBProxy                 = "DBProxy"
	GlobalCluster           = "GlobalCluster"
	OptionGroup             = "OptionGroup"
	DBClusterEndpoint       = "DBClusterEndpoint"
)

// StatusDeleting is reported by every kind with a status while its deletion is in progress.
const StatusDeleting = "deleting"

// Kind describes how to read back one RDS resource kind.
type Kind struct {
	Name string
	// StatusField is empty for kinds that expose no lifecycle status.
	StatusField string
	// ARNField is the record field holding the resource's ARN.
	ARNField string
	Wait     accessor.Timing
	Delete   accessor.Timing
	// describe returns the first matching resource, or nil if the response is empty.
	describe func(ctx context.Context, api API, id string) (interface{}, error)
	notFound func(err error) bool
}

var (
	slow     = accessor.Timing{Timeout: 30 * time.Minute, Interval: 15 * time.Second}
	slowGone = accessor.Timing{Timeout: 20 * time.Minute, Interval: 15 * time.Second}
	quick    = accessor.Timing{Timeout: 10 * time.Minute, Interval: 15 * time.Second}
	attempts = accessor.Timing{Timeout: 10 * time.Minute, Interval: 10 * time.Second}
)

// Kinds lists every supported kind by name.
var Kinds = map[string]*Kind{
	DBInstance: {
		Name:        DBInstance,
		StatusField: "DBInstanceStatus",
		ARNField:    "DBInstanceArn",
		Wait:        slow,
		Delete:      slowGone,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBInstances(ctx, &awsrds.DescribeDBInstancesInput{DBInstanceIdentifier: aws.String(id)})
			if err != nil || len(out.DBInstances) == 0 {
				return nil, err
			}

			return out.DBInstances[0], nil
		},
		notFound: isFault[*types.DBInstanceNotFoundFault],
	},
	DBCluster: {
		Name:        DBCluster,
		StatusField: "Status",
		ARNField:    "DBClusterArn",
		Wait:        slow,
		Delete:      slowGone,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBClusters(ctx, &awsrds.DescribeDBClustersInput{DBClusterIdentifier: aws.String(id)})
			if err != nil || len(out.DBClusters) == 0 {
				return nil, err
			}

			return out.DBClusters[0], nil
		},
		notFound: isFault[*types.DBClusterNotFoundFault],
	},
	DBParameterGroup: {
		Name:     DBParameterGroup,
		ARNField: "DBParameterGroupArn",
		Wait:     quick,
		Delete:   quick,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBParameterGroups(ctx,
				&awsrds.DescribeDBParameterGroupsInput{DBParameterGroupName: aws.String(id)})
			if err != nil || len(out.DBParameterGroups) == 0 {
				return nil, err
			}

			return out.DBParameterGroups[0], nil
		},
		notFound: isFault[*types.DBParameterGroupNotFoundFault],
	},
	DBClusterParameterGroup: {
		Name:     DBClusterParameterGroup,
		ARNField: "DBClusterParameterGroupArn",
		Wait:     quick,
		Delete:   quick,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBClusterParameterGroups(ctx,
				&awsrds.DescribeDBClusterParameterGroupsInput{DBClusterParameterGroupName: aws.String(id)})
			if err != nil || len(out.DBClusterParameterGroups) == 0 {
				return nil, err
			}

			return out.DBClusterParameterGroups[0], nil
		},
		// Missing cluster parameter groups are reported with the instance parameter group fault.
		notFound: isFault[*types.DBParameterGroupNotFoundFault],
	},
	DBSubnetGroup: {
		Name:     DBSubnetGroup,
		ARNField: "DBSubnetGroupArn",
		Wait:     quick,
		Delete:   quick,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBSubnetGroups(ctx, &awsrds.DescribeDBSubnetGroupsInput{DBSubnetGroupName: aws.String(id)})
			if err != nil || len(out.DBSubnetGroups) == 0 {
				return nil, err
			}

			return out.DBSubnetGroups[0], nil
		},
		notFound: isFault[*types.DBSubnetGroupNotFoundFault],
	},
	DBSnapshot: {
		Name:        DBSnapshot,
		StatusField: "Status",
		ARNField:    "DBSnapshotArn",
		Wait:        slow,
		Delete:      slowGone,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBSnapshots(ctx, &awsrds.DescribeDBSnapshotsInput{DBSnapshotIdentifier: aws.String(id)})
			if err != nil || len(out.DBSnapshots) == 0 {
				return nil, err
			}

			return out.DBSnapshots[0], nil
		},
		notFound: isFault[*types.DBSnapshotNotFoundFault],
	},
	DBClusterSnapshot: {
		Name:        DBClusterSnapshot,
		StatusField: "Status",
		ARNField:    "DBClusterSnapshotArn",
		Wait:        slow,
		Delete:      slowGone,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBClusterSnapshots(ctx,
				&awsrds.DescribeDBClusterSnapshotsInput{DBClusterSnapshotIdentifier: aws.String(id)})
			if err != nil || len(out.DBClusterSnapshots) == 0 {
				return nil, err
			}

			return out.DBClusterSnapshots[0], nil
		},
		notFound: isFault[*types.DBClusterSnapshotNotFoundFault],
	},
	DBProxy: {
		Name:        DBProxy,
		StatusField: "Status",
		ARNField:    "DBProxyArn",
		Wait:        quick,
		Delete:      quick,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBProxies(ctx, &awsrds.DescribeDBProxiesInput{DBProxyName: aws.String(id)})
			if err != nil || len(out.DBProxies) == 0 {
				return nil, err
			}

			return out.DBProxies[0], nil
		},
		notFound: isFault[*types.DBProxyNotFoundFault],
	},
	GlobalCluster: {
		Name:        GlobalCluster,
		StatusField: "Status",
		ARNField:    "GlobalClusterArn",
		Wait:        quick,
		Delete:      quick,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeGlobalClusters(ctx,
				&awsrds.DescribeGlobalClustersInput{GlobalClusterIdentifier: aws.String(id)})
			if err != nil || len(out.GlobalClusters) == 0 {
				return nil, err
			}

			return out.GlobalClusters[0], nil
		},
		notFound: isFault[*types.GlobalClusterNotFoundFault],
	},
	OptionGroup: {
		Name:     OptionGroup,
		ARNField: "OptionGroupArn",
		Wait:     attempts,
		Delete:   attempts,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeOptionGroups(ctx, &awsrds.DescribeOptionGroupsInput{OptionGroupName: aws.String(id)})
			if err != nil || len(out.OptionGroupsList) == 0 {
				return nil, err
			}

			return out.OptionGroupsList[0], nil
		},
		notFound: isFault[*types.OptionGroupNotFoundFault],
	},
	DBClusterEndpoint: {
		Name:        DBClusterEndpoint,
		StatusField: "Status",
		ARNField:    "DBClusterEndpointArn",
		Wait:        attempts,
		Delete:      attempts,
		describe: func(ctx context.Context, api API, id string) (interface{}, error) {
			out, err := api.DescribeDBClusterEndpoints(ctx,
				&awsrds.DescribeDBClusterEndpointsInput{DBClusterEndpointIdentifier: aws.String(id)})
			if err != nil || len(out.DBClusterEndpoints) == 0 {
				return nil, err
			}

			return out.DBClusterEndpoints[0], nil
		},
		notFound: isFault[*types.DBClusterEndpointNotFoundFault],
	},
}

func isFault[T error](err error) bool {
	var fault T
	return errors.As(err, &fault)
}
