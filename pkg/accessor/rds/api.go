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

	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
)

// API is the subset of the RDS client used to read resources back. *awsrds.Client implements it.
type API interface {
	DescribeDBInstances(ctx context.Context, params *awsrds.DescribeDBInstancesInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBInstancesOutput, error)
	DescribeDBClusters(ctx context.Context, params *awsrds.DescribeDBClustersInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBClustersOutput, error)
	DescribeDBParameterGroups(ctx context.Context, params *awsrds.DescribeDBParameterGroupsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBParameterGroupsOutput, error)
	DescribeDBParameters(ctx context.Context, params *awsrds.DescribeDBParametersInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBParametersOutput, error)
	DescribeDBClusterParameterGroups(ctx context.Context, params *awsrds.DescribeDBClusterParameterGroupsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBClusterParameterGroupsOutput, error)
	DescribeDBClusterParameters(ctx context.Context, params *awsrds.DescribeDBClusterParametersInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBClusterParametersOutput, error)
	DescribeDBSubnetGroups(ctx context.Context, params *awsrds.DescribeDBSubnetGroupsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBSubnetGroupsOutput, error)
	DescribeDBSnapshots(ctx context.Context, params *awsrds.DescribeDBSnapshotsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBSnapshotsOutput, error)
	DescribeDBClusterSnapshots(ctx context.Context, params *awsrds.DescribeDBClusterSnapshotsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBClusterSnapshotsOutput, error)
	DescribeDBProxies(ctx context.Context, params *awsrds.DescribeDBProxiesInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBProxiesOutput, error)
	DescribeGlobalClusters(ctx context.Context, params *awsrds.DescribeGlobalClustersInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeGlobalClustersOutput, error)
	DescribeOptionGroups(ctx context.Context, params *awsrds.DescribeOptionGroupsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeOptionGroupsOutput, error)
	DescribeDBClusterEndpoints(ctx context.Context, params *awsrds.DescribeDBClusterEndpointsInput,
		optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBClusterEndpointsOutput, error)
	ListTagsForResource(ctx context.Context, params *awsrds.ListTagsForResourceInput,
		optFns ...func(*awsrds.Options)) (*awsrds.ListTagsForResourceOutput, error)
}

var _ API = &awsrds.Client{}
